package remote

import (
	"dymoprint/pkg/label"
)

// Printer prints jobs on the server side.
type Printer interface {
	Print(job label.Job) (*label.Result, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type pageData struct {
	Text    string
	Success string
	Error   string
}
