package printful

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a Printful identifier. The API sends numbers; store-scoped
// external ids arrive as strings, so both are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("printful id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type SyncProduct struct {
	ID           ID     `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Variants     int    `json:"variants"`
	Synced       int    `json:"synced"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsIgnored    bool   `json:"is_ignored"`
}

type File struct {
	ID           ID     `json:"id"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Visible      bool   `json:"visible"`
}

type SyncVariant struct {
	ID          ID     `json:"id"`
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	RetailPrice string `json:"retail_price"`
	Currency    string `json:"currency"`
	Files       []File `json:"files"`
}

// PreviewURL returns the preview_url of the first file tagged "preview".
func (v SyncVariant) PreviewURL() string {
	for _, f := range v.Files {
		if f.Type == "preview" {
			return f.PreviewURL
		}
	}
	return ""
}

type StoreProduct struct {
	SyncProduct  SyncProduct   `json:"sync_product"`
	SyncVariants []SyncVariant `json:"sync_variants"`
}

type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type envelope[T any] struct {
	Code   int     `json:"code"`
	Result T       `json:"result"`
	Paging *Paging `json:"paging,omitempty"`
}

type errorEnvelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Error  struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}
