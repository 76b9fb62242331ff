package enums

// NotificationKind grades the transient notices surfaced to the shell.
type NotificationKind string

const (
	NotificationKindInfo    NotificationKind = "info"
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindWarning NotificationKind = "warning"
)

// IsValid reports whether the value matches a canonical notification kind.
func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationKindInfo, NotificationKindSuccess, NotificationKindWarning:
		return true
	}
	return false
}
