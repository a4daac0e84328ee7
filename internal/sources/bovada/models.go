package bovada

// Navigation tree. Leaves carry the coupon link for one league.
type navNode struct {
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Leaf        bool      `json:"leaf"`
	Children    []navNode `json:"children"`
}

type navResponse struct {
	Children []navNode `json:"children"`
	Parents  []navNode `json:"parents"`
	Current  *navNode  `json:"current"`
}

// Coupon response: one section per league with its events.
type couponSection struct {
	Path   []pathNode    `json:"path"`
	Events []couponEvent `json:"events"`
}

type pathNode struct {
	Description string `json:"description"`
}

type couponEvent struct {
	ID            any            `json:"id"`
	Description   string         `json:"description"`
	StartTime     int64          `json:"startTime"` // unix millis
	Live          bool           `json:"live"`
	AwayTeamFirst bool           `json:"awayTeamFirst"`
	Competitors   []competitor   `json:"competitors"`
	DisplayGroups []displayGroup `json:"displayGroups"`
}

type competitor struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type displayGroup struct {
	Description string   `json:"description"`
	Markets     []market `json:"markets"`
}

type market struct {
	Description string   `json:"description"`
	Period      *period  `json:"period"`
	Outcomes    []outcome `json:"outcomes"`
}

type period struct {
	Description string `json:"description"`
}

type outcome struct {
	Description string `json:"description"`
	// Type is the side marker: H home, A away, O over, U under.
	Type  string `json:"type"`
	Price price  `json:"price"`
}

type price struct {
	American  string `json:"american"`
	Handicap  string `json:"handicap"`
	Handicap2 string `json:"handicap2"`
}
