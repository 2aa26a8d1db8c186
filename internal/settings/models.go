package settings

// GFSlots is the fixed capacity of the leadership address list.
const GFSlots = 5

// DepartmentEmail maps one cost center to its notification address. At
// most one active address exists per cost center.
type DepartmentEmail struct {
	Email      string `json:"email"`
	CostCenter string `json:"costCenter"`
}

// EmailSettings holds the recipient configuration for birthday
// notifications: a bounded list of leadership ("GF") addresses plus the
// per-department mapping. Department codes here are drawn from the codes
// present in the roster, but stale entries are tolerated.
type EmailSettings struct {
	GF               []string          `json:"gf"`
	DepartmentEmails []DepartmentEmail `json:"departmentEmails"`
}

// Settings is the persisted notification configuration document.
// LastNotification is the ISO date of the last sweep that successfully
// fired at least one notification; it exists purely for deduplication.
type Settings struct {
	NotificationEmail string        `json:"notificationEmail,omitempty"`
	LastNotification  string        `json:"lastNotification,omitempty"`
	EmailSettings     EmailSettings `json:"emailSettings"`
}

// Default is the documented shape returned when nothing is stored yet or
// the stored document is unreadable.
func Default() Settings {
	return Settings{
		EmailSettings: EmailSettings{
			GF:               make([]string, GFSlots),
			DepartmentEmails: []DepartmentEmail{},
		},
	}
}

// normalize pads or truncates the GF list to its fixed capacity so
// callers can index slots directly.
func (s *Settings) normalize() {
	gf := s.EmailSettings.GF
	for len(gf) < GFSlots {
		gf = append(gf, "")
	}
	s.EmailSettings.GF = gf[:GFSlots]
	if s.EmailSettings.DepartmentEmails == nil {
		s.EmailSettings.DepartmentEmails = []DepartmentEmail{}
	}
}
