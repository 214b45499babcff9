package domain

import "time"

// Generation is a history record of one successful image generation.
type Generation struct {
	ID        int64     `bun:",pk,autoincrement"`
	Provider  string    `bun:"provider"`
	Model     string    `bun:"model"`
	Prompt    string    `bun:"prompt"`
	Path      string    `bun:"path"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:now()"`
}
