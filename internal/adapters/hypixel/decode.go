package hypixel

import (
	"encoding/json"
	"fmt"

	"verifybot/internal/domain"
)

// DecodeError is returned by Decode. It always matches
// domain.ErrProfileService under errors.Is; Reason records which check failed.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hypixel: %s: %v", e.Reason, e.Err)
	}
	return "hypixel: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == domain.ErrProfileService }

// Player is the subset of the player document the bot reads.
type Player struct {
	DisplayName string `json:"displayname"`
	// Prefix is kept raw: only its presence matters.
	Prefix             json.RawMessage `json:"prefix"`
	Rank               string          `json:"rank"`
	MonthlyPackageRank string          `json:"monthlyPackageRank"`
	NewPackageRank     string          `json:"newPackageRank"`
	SocialMedia        *struct {
		// Links values stay raw so an unexpected entry does not fail the decode.
		Links map[string]json.RawMessage `json:"links"`
	} `json:"socialMedia"`
}

type playerResponse struct {
	Success bool    `json:"success"`
	Cause   string  `json:"cause"`
	Player  *Player `json:"player"`
}

type guildResponse struct {
	Success bool `json:"success"`
	Guild   *struct {
		Name string `json:"name"`
	} `json:"guild"`
}

// RankRules tunes ClassifyRank.
type RankRules struct {
	// Staff ranks never map to a purchasable tier.
	Staff []string
	// PremiumMarker is the monthlyPackageRank value of the top tier.
	PremiumMarker string
}

func DefaultRankRules() RankRules {
	return RankRules{
		Staff:         []string{"HELPER", "MODERATOR", "ADMIN", "YOUTUBER"},
		PremiumMarker: "SUPERSTAR",
	}
}

var packageRanks = map[string]domain.RankTier{
	"MVP_PLUS": domain.RankMVPPlus,
	"MVP":      domain.RankMVP,
	"VIP_PLUS": domain.RankVIPPlus,
	"VIP":      domain.RankVIP,
}

// ClassifyRank derives the tier of p. First match wins: a custom prefix or a
// staff rank means no tier, then the premium marker, then newPackageRank.
func (r RankRules) ClassifyRank(p *Player) domain.RankTier {
	if len(p.Prefix) > 0 {
		return domain.RankNone
	}
	for _, s := range r.Staff {
		if p.Rank == s {
			return domain.RankNone
		}
	}
	if r.PremiumMarker != "" && p.MonthlyPackageRank == r.PremiumMarker {
		return domain.RankMVPPlusPlus
	}
	if tier, ok := packageRanks[p.NewPackageRank]; ok {
		return tier
	}
	return domain.RankNone
}

// Decode turns a player response body into profile attributes. It is the
// only place the raw document is interpreted. GroupName is left nil.
func Decode(body []byte, rules RankRules) (domain.ProfileAttributes, error) {
	var resp playerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ProfileAttributes{}, &DecodeError{Reason: "malformed player response", Err: err}
	}
	if !resp.Success {
		reason := "request not successful"
		if resp.Cause != "" {
			reason += ": " + resp.Cause
		}
		return domain.ProfileAttributes{}, &DecodeError{Reason: reason}
	}
	if resp.Player == nil {
		return domain.ProfileAttributes{}, &DecodeError{Reason: "no player profile"}
	}
	p := resp.Player
	if p.DisplayName == "" {
		return domain.ProfileAttributes{}, &DecodeError{Reason: "player has no displayname"}
	}

	attrs := domain.ProfileAttributes{
		DisplayName: p.DisplayName,
		Rank:        rules.ClassifyRank(p),
	}
	linked, err := linkedDiscord(p)
	if err != nil {
		return domain.ProfileAttributes{}, err
	}
	attrs.LinkedIdentity = linked
	return attrs, nil
}

// linkedDiscord returns nil when the DISCORD link is missing, null or empty.
func linkedDiscord(p *Player) (*string, error) {
	if p.SocialMedia == nil {
		return nil, nil
	}
	raw, ok := p.SocialMedia.Links["DISCORD"]
	if !ok {
		return nil, nil
	}
	var discord *string
	if err := json.Unmarshal(raw, &discord); err != nil {
		return nil, &DecodeError{Reason: "malformed discord link", Err: err}
	}
	if discord == nil || *discord == "" {
		return nil, nil
	}
	return discord, nil
}

// decodeGuildName returns nil when the player is in no guild.
func decodeGuildName(body []byte) (*string, error) {
	var resp guildResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("request not successful")
	}
	if resp.Guild == nil || resp.Guild.Name == "" {
		return nil, nil
	}
	name := resp.Guild.Name
	return &name, nil
}
