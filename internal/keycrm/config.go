package keycrm

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultBaseURL is the KeyCRM open API root
const DefaultBaseURL = "https://openapi.keycrm.app/v1"

var (
	ErrMissingToken    = errors.New("keycrm: api token is required")
	ErrMissingSourceID = errors.New("keycrm: source id is required")
	ErrInvalidSourceID = errors.New("keycrm: source id must be an integer")
)

// Config holds the credentials for the KeyCRM order API
type Config struct {
	Token    string
	SourceID string // numeric, kept as configured text until Validate
	BaseURL  string
}

// Validate checks that both secrets are present and the source id is numeric
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.SourceID == "" {
		return ErrMissingSourceID
	}
	if _, err := c.ParsedSourceID(); err != nil {
		return err
	}
	return nil
}

// ParsedSourceID returns the source id as the integer KeyCRM expects
func (c Config) ParsedSourceID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.SourceID), 10, 64)
	if err != nil {
		return 0, ErrInvalidSourceID
	}
	return id, nil
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}
