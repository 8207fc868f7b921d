package entity

// Level is one of the competition tiers the extractor knows about
type Level int

const (
	LevelNational Level = iota
	LevelRegional
	LevelDepartmental
)

const (
	NationalName     = "Championnats Nationaux"
	RegionalName     = "Championnats Régionaux"
	DepartmentalName = "Championnats Départementaux"

	NationalURL     = "http://www.ffvb.org/competitions/volley-ball/championnats-nationaux/"
	RegionalURL     = "http://www.ffvb.org/competitions/volley-ball/championnats-regionaux/"
	DepartmentalURL = "http://www.ffvb.org/competitions/volley-ball/championnats-departementaux/"
)

// Levels lists every known level, national first
var Levels = []Level{LevelNational, LevelRegional, LevelDepartmental}

// Competition returns the listing entry of the level
func (l Level) Competition() Competition {
	switch l {
	case LevelNational:
		return Competition{Name: NationalName, URL: NationalURL}
	case LevelRegional:
		return Competition{Name: RegionalName, URL: RegionalURL}
	case LevelDepartmental:
		return Competition{Name: DepartmentalName, URL: DepartmentalURL}
	}
	return Competition{}
}

func (l Level) String() string {
	switch l {
	case LevelNational:
		return "national"
	case LevelRegional:
		return "regional"
	case LevelDepartmental:
		return "departmental"
	}
	return "unknown"
}

// Competitions returns the fixed list of competitions in Levels order.
// The list is static lookup data; no page is fetched.
func Competitions() []Competition {
	competitions := make([]Competition, 0, len(Levels))
	for _, l := range Levels {
		competitions = append(competitions, l.Competition())
	}
	return competitions
}
