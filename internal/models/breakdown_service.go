package models

// BreakdownService is an unscheduled repair visit logged against a branch.
type BreakdownService struct {
	ID          int    `json:"id"`
	CustomerID  int    `json:"customer_id"`
	BranchID    int    `json:"branch_id"`
	ServiceDate string `json:"service_date"`
	FileName    string `json:"file_name"`
	UploadDate  string `json:"upload_date"`
	ObjectKey   string `json:"object_key,omitempty"`
}

// ServiceSheet is the file a technician hands in for a quarterly or breakdown visit.
// Only the name is consumed by the tracker; the bytes belong to the upload backend.
type ServiceSheet struct {
	FileName    string
	ContentType string
	Size        int64
	Content     []byte
}

// QuarterlyUpload is the outcome of a quarterly service-sheet upload.
type QuarterlyUpload struct {
	CustomerID  int    `json:"customer_id"`
	BranchID    int    `json:"branch_id"`
	Quarter     int    `json:"quarter"`
	ServiceDate string `json:"service_date"`
	FileName    string `json:"file_name"`
	ObjectKey   string `json:"object_key,omitempty"`
	UploadDate  string `json:"upload_date"`
	Branch      Branch `json:"branch"`
}
