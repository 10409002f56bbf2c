package model

import (
	"time"

	"github.com/google/uuid"
)

// Status of one tracked transfer. Per correlation id the machine is
// pending -> {successful | failed}; nothing moves it backwards.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
)

// Transfer is the registry record for one book file download.
// Keyed by correlation id so concurrent downloads never clobber
// each other's tracking state.
type Transfer struct {
	CorrelationID string     `json:"correlation_id"`
	BookID        uuid.UUID  `json:"book_id"`
	Destination   string     `json:"destination"`
	Status        Status     `json:"status"`
	Detail        string     `json:"detail,omitempty"`
	EnqueuedAt    time.Time  `json:"enqueued_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// TransferTask is the asynq payload for download:book_file.
type TransferTask struct {
	CorrelationID string `json:"correlation_id"`
	BookID        string `json:"book_id"`
	FileKey       string `json:"file_key"`
	Destination   string `json:"destination"`
}

// TransferResponse is the API view of a transfer.
type TransferResponse struct {
	CorrelationID string `json:"correlation_id"`
	BookID        string `json:"book_id"`
	Status        Status `json:"status"`
	Successful    bool   `json:"successful"`
	Detail        string `json:"detail,omitempty"`
}

func (t *Transfer) ToResponse() *TransferResponse {
	return &TransferResponse{
		CorrelationID: t.CorrelationID,
		BookID:        t.BookID.String(),
		Status:        t.Status,
		Successful:    t.Status == StatusSuccessful,
		Detail:        t.Detail,
	}
}
