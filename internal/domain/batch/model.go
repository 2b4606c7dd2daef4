package batch

// Status represents the lifecycle status of a batch
type Status string

const (
	StatusFree       Status = "free"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Batch is a fixed-size partition of project items assigned to one worker at a time
type Batch struct {
	ProjectID  string `json:"project_id"`
	Number     int    `json:"number"`
	Status     Status `json:"status"`
	Owner      string `json:"owner,omitempty"`
	Progress   string `json:"progress"`
	Checkpoint string `json:"checkpoint,omitempty"`
}

// Item is one row of work within a batch. Context fields are fixed at
// partition time; only Link is written by workers.
type Item struct {
	ProjectID   string `json:"project_id"`
	BatchNumber int    `json:"batch_number"`
	EAN         string `json:"ean"`
	Description string `json:"description"`
	Site        string `json:"site,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Address     string `json:"address,omitempty"`
	Link        string `json:"link,omitempty"`

	// RowIndex is the store position captured when the batch was loaded.
	// Mutations pass it back so the store never scans for the row.
	RowIndex int `json:"row_index,omitempty"`
}

// Key identifies an item within its batch.
type Key struct {
	ProjectID   string
	BatchNumber int
	EAN         string
}

// Key returns the item's identity key.
func (i Item) Key() Key {
	return Key{ProjectID: i.ProjectID, BatchNumber: i.BatchNumber, EAN: i.EAN}
}
