package remote

import (
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"dymoprint/pkg/label"
)

// New returns a client printing through the server at addr, e.g.
// "http://printhost:8000".
func New(addr string) *Client {
	return &Client{http: resty.New().SetBaseURL(addr)}
}

type Client struct {
	http *resty.Client
}

func (c *Client) Print(job label.Job) (*label.Result, error) {
	var res label.Result
	var fail ErrorResponse

	resp, err := c.http.R().
		SetBody(job).
		SetResult(&res).
		SetError(&fail).
		Post("/print")
	if err != nil {
		return nil, errors.Wrap(err, "remote print")
	}

	if resp.IsError() {
		if fail.Error == "" {
			return nil, errors.Errorf("remote print: %s", resp.Status())
		}
		return nil, errors.Errorf("remote print: %s", fail.Error)
	}

	return &res, nil
}
