package model

// Family identifies the platform a frame originated from.
type Family string

const (
	FamilyJavaScript Family = "javascript"
	FamilyNative     Family = "native"
	FamilyOther      Family = "other"
)

// ParseFamily maps arbitrary SDK platform strings onto a Family.
// Unknown values collapse to FamilyOther.
func ParseFamily(s string) Family {
	switch Family(s) {
	case FamilyJavaScript, FamilyNative:
		return Family(s)
	default:
		return FamilyOther
	}
}

// Frame is one stack entry. All attributes are optional; Filename and
// ContextLine arrive already symbolicated but not yet normalized.
// InApp is tri-state: nil means the SDK did not say.
type Frame struct {
	Module      string `json:"module,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContextLine string `json:"context_line,omitempty"`
	Function    string `json:"function,omitempty"`
	Package     string `json:"package,omitempty"`
	Family      Family `json:"family,omitempty"`
	InApp       *bool  `json:"in_app,omitempty"`
}
