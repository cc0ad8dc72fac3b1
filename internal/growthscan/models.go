// internal/growthscan/models.go
package growthscan

// RevenueTier is the self-reported monthly revenue bracket.
type RevenueTier string

const (
	RevenueUpTo30K    RevenueTier = "up_to_30k"
	Revenue30KTo100K  RevenueTier = "30k_to_100k"
	Revenue100KTo500K RevenueTier = "100k_to_500k"
	RevenueAbove500K  RevenueTier = "above_500k"
)

// Valid reports whether the tier is one of the four known values.
func (r RevenueTier) Valid() bool {
	switch r {
	case RevenueUpTo30K, Revenue30KTo100K, Revenue100KTo500K, RevenueAbove500K:
		return true
	}
	return false
}

// MainPain is the self-reported primary growth blocker.
type MainPain string

const (
	PainConversion   MainPain = "conversion"
	PainBranding     MainPain = "branding"
	PainChannel      MainPain = "channel"
	PainSalesProcess MainPain = "sales_process"
)

// Valid reports whether the pain is one of the four known values.
func (p MainPain) Valid() bool {
	switch p {
	case PainConversion, PainBranding, PainChannel, PainSalesProcess:
		return true
	}
	return false
}

// TeamStructure is the optional marketing-team setup answer. The empty
// string means the question was skipped.
type TeamStructure string

const (
	TeamSolo       TeamStructure = "solo"
	TeamFreelancer TeamStructure = "freelancer"
	TeamAgency     TeamStructure = "agency"
	TeamInHouse    TeamStructure = "in_house"
)

// Valid reports whether the structure is one of the four known values.
func (t TeamStructure) Valid() bool {
	switch t {
	case TeamSolo, TeamFreelancer, TeamAgency, TeamInHouse:
		return true
	}
	return false
}

// Answers is the transient answer set captured during one scan session.
// RevenueTier and MainPain are required before scoring; TeamStructure may
// stay empty.
type Answers struct {
	RevenueTier   RevenueTier   `json:"revenueTier,omitempty"`
	MainPain      MainPain      `json:"mainPain,omitempty"`
	TeamStructure TeamStructure `json:"teamStructure,omitempty"`
}

// Complete reports whether both required answers are present.
func (a Answers) Complete() bool {
	return a.RevenueTier != "" && a.MainPain != ""
}

// ArchetypeResult is one of the six fixed diagnostic outcomes.
type ArchetypeResult struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Solution    string `json:"solution"`
	CTAText     string `json:"ctaText"`
	Icon        string `json:"icon"`
}

// Lead is one completed questionnaire submission plus contact details,
// matching the leads_diagnostic table.
type Lead struct {
	ContactName     string        `json:"contact_name"`
	ContactEmail    string        `json:"contact_email"`
	ContactWhatsApp string        `json:"contact_whatsapp,omitempty"`
	RevenueTier     RevenueTier   `json:"revenue_tier"`
	MainPain        MainPain      `json:"main_pain"`
	TeamStructure   TeamStructure `json:"team_structure,omitempty"`
	MaturityScore   int           `json:"maturity_score"`
	ResultArchetype string        `json:"result_archetype"`
	UserAgent       string        `json:"user_agent,omitempty"`
	Referrer        string        `json:"referrer,omitempty"`
}
