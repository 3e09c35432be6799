package model

import "time"

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	OrgType   string    `json:"org_type"`
	CreatedAt time.Time `json:"created_at"`
}
