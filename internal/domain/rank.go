package domain

// RankTier is the privilege tier derived from a Hypixel profile.
// Higher values are more privileged.
type RankTier int

const (
	RankNone RankTier = iota
	RankVIP
	RankVIPPlus
	RankMVP
	RankMVPPlus
	RankMVPPlusPlus
)

var rankLabels = [...]string{
	RankVIP:         "VIP",
	RankVIPPlus:     "VIP+",
	RankMVP:         "MVP",
	RankMVPPlus:     "MVP+",
	RankMVPPlusPlus: "MVP++",
}

// Label returns the Discord role name of the tier, or "" for RankNone.
func (r RankTier) Label() string {
	if r <= RankNone || int(r) >= len(rankLabels) {
		return ""
	}
	return rankLabels[r]
}

func (r RankTier) String() string {
	if r == RankNone {
		return "NONE"
	}
	if l := r.Label(); l != "" {
		return l
	}
	return "UNKNOWN"
}

// TierLabels returns every tier role name, lowest tier first.
func TierLabels() []string {
	return append([]string(nil), rankLabels[RankVIP:]...)
}

// IsTierLabel reports whether name is the role name of some tier.
func IsTierLabel(name string) bool {
	for _, l := range rankLabels[RankVIP:] {
		if l == name {
			return true
		}
	}
	return false
}
