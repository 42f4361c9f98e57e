package entity

// InboundMessage is a normalized chat message addressed to the bot,
// extracted from a platform event payload.
type InboundMessage struct {
	Channel   string
	User      string
	Text      string
	Timestamp string
}

// User holds the identity fields the bot cares about.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name,omitempty"`
}

// DisplayName prefers the profile real name over the handle.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}
