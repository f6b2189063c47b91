package models

import "encoding/json"

type PlatformConfigRequest struct {
	URL         string `json:"url"`
	TitleBlock  string `json:"title_block"`
	ReviewBlock string `json:"review_block"`
}

type PlatformConfigResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}
