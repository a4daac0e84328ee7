package tipico

// navNode is one level of /json/program/navigationTree/all. The tree nests
// sport -> country -> league, and only the league level carries a groupId.
type navNode struct {
	GroupID  int64     `json:"groupId"`
	Children []navNode `json:"children"`
}

type selectionResponse struct {
	Selection struct {
		Events map[string]selectedEvent `json:"events"`
	} `json:"SELECTION"`
}

type selectedEvent struct {
	ID      int64 `json:"id"`
	Team1ID int64 `json:"team1Id"`
}

// eventDetail is /json/services/event/{id}. Markets are split across four
// parallel maps: categories gate which sections count, sections carry the
// market title and its odd-group ids, oddGroups carry the line caption, and
// oddGroupResultsMap points each group at its priced selections in results.
type eventDetail struct {
	Event struct {
		ID        int64    `json:"id"`
		Live      bool     `json:"live"`
		StartDate string   `json:"startDate"`
		Group     []string `json:"group"`
		Team1     string   `json:"team1"`
		Team2     string   `json:"team2"`
	} `json:"event"`
	Categories []category           `json:"categories"`
	Sections   map[string][]section `json:"categoryOddGroupMapSectioned"`
	OddGroups  map[string]oddGroup  `json:"oddGroups"`
	GroupMap   map[string][]int64   `json:"oddGroupResultsMap"`
	Results    map[string]result    `json:"results"`
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type section struct {
	Title       string  `json:"oddGroupTitle"`
	OddGroupIDs []int64 `json:"oddGroupIds"`
}

type oddGroup struct {
	ShortCaption string `json:"shortCaption"`
}

type result struct {
	Caption string  `json:"caption"`
	Quote   float64 `json:"quoteFloatValue"`
}
