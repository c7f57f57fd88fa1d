package category

import "time"

type Category struct {
	Type      string    `json:"type" db:"type"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type Info struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

func (c *Category) Info() Info {
	return Info{Type: c.Type, Color: c.Color}
}
