package models

// Tenant is isolated restaurant account
type Tenant struct {
	ID       string
	Name     string
	Schedule TenantSchedule
}

// TenantSchedule is tenant pickup scheduling config
type TenantSchedule struct {
	Timezone    string
	LeadMinutes int
	SlotMinutes int
}

// ActorPayload is verified staff token payload
type ActorPayload struct {
	ActorID  string
	TenantID string
	Role     string
}
