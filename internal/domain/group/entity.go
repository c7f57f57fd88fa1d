package group

import "time"

// A user belongs to at most one group; member emails are unique across all
// groups and the store enforces that.
type Group struct {
	Name      string    `json:"name" db:"name"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type Member struct {
	Email  string `json:"email" db:"email"`
	UserID string `json:"-" db:"user_id"`
}

func (g *Group) MemberEmails() []string {
	emails := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		emails = append(emails, m.Email)
	}
	return emails
}

func (g *Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// Info is the caller-facing projection: name plus member emails only.
type Info struct {
	Name    string       `json:"name"`
	Members []MemberInfo `json:"members"`
}

type MemberInfo struct {
	Email string `json:"email"`
}

func (g *Group) Info() Info {
	members := make([]MemberInfo, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, MemberInfo{Email: m.Email})
	}
	return Info{Name: g.Name, Members: members}
}
