package state

import "time"

// View 状态的 JSON 表示
type View struct {
	State           string      `json:"state"`
	Since           *time.Time  `json:"since,omitempty"`
	TotalCount      int         `json:"total_count"`
	SessionCount    int         `json:"session_count"`
	LastUpdated     *time.Time  `json:"last_updated,omitempty"`
	Advisory        string      `json:"advisory,omitempty"`
	AdvisoryKind    FailureKind `json:"advisory_kind,omitempty"`
	ErrorKind       FailureKind `json:"error_kind,omitempty"`
	Error           string      `json:"error,omitempty"`
	NeedsCredential bool        `json:"needs_credential"`
}

// Describe 将状态转换为 View
func Describe(s Status) View {
	switch st := s.(type) {
	case Idle:
		return View{State: StateIdle}
	case Loading:
		since := st.Since
		return View{State: StateLoading, Since: &since}
	case Loaded:
		v := View{
			State:        StateLoaded,
			Advisory:     st.Advisory,
			AdvisoryKind: st.AdvisoryKind,
		}
		if st.Data != nil {
			updated := st.Data.LastUpdated
			v.TotalCount = st.Data.TotalCount
			v.SessionCount = len(st.Data.Sessions)
			v.LastUpdated = &updated
		}
		return v
	case Failed:
		at := st.At
		return View{
			State:           StateFailed,
			Since:           &at,
			ErrorKind:       st.Kind,
			Error:           st.Message,
			NeedsCredential: st.Kind.CredentialRelated(),
		}
	default:
		return View{State: StateIdle}
	}
}
