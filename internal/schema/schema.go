// Package schema holds the fixed, ordered attribute layout of the player
// dataset. The layout is known before scraping starts and never depends on
// what a page actually contains.
package schema

import (
	"github.com/cockroachdb/errors"
)

const (
	NameKey = "name"
	TeamKey = "team"

	AgeKey         = "age"
	NationalityKey = "nationality"
	MinutesKey     = "minutes"
)

// Group is the set of attribute keys read from one source table.
type Group struct {
	TableID string
	Keys    []string
}

type Schema struct {
	Version string
	// EligibilityTable is the table whose MinutesKey cell gates admission.
	EligibilityTable string
	Groups           []Group
}

// Columns returns name, team, then every group's keys in order.
func (s Schema) Columns() []string {
	out := make([]string, 0, s.Width())
	out = append(out, NameKey, TeamKey)
	for _, g := range s.Groups {
		out = append(out, g.Keys...)
	}
	return out
}

// Width is the number of columns including the two identity fields.
func (s Schema) Width() int {
	return 2 + s.AttributeWidth()
}

// AttributeWidth is the number of attribute values carried by a record.
func (s Schema) AttributeWidth() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Keys)
	}
	return n
}

// Index returns the position of key among the attribute values, or -1.
func (s Schema) Index(key string) int {
	i := 0
	for _, g := range s.Groups {
		for _, k := range g.Keys {
			if k == key {
				return i
			}
			i++
		}
	}
	return -1
}

func (s Schema) Validate() error {
	if s.EligibilityTable == "" {
		return errors.New("schema: eligibility table is required")
	}
	if len(s.Groups) == 0 {
		return errors.New("schema: no attribute groups")
	}
	seen := map[string]string{NameKey: "", TeamKey: ""}
	for _, g := range s.Groups {
		if g.TableID == "" {
			return errors.New("schema: group without table id")
		}
		if len(g.Keys) == 0 {
			return errors.Newf("schema: group %s has no keys", g.TableID)
		}
		for _, k := range g.Keys {
			if prev, ok := seen[k]; ok {
				return errors.Newf("schema: key %q in %s already defined by %q", k, g.TableID, prev)
			}
			seen[k] = g.TableID
		}
	}
	return nil
}

// PremierLeague2024 is the fbref layout for the 2024-2025 Premier League
// squad pages.
var PremierLeague2024 = Schema{
	Version:          "fbref-pl-2024-2025.v1",
	EligibilityTable: "stats_playing_time_9",
	Groups: []Group{
		{
			TableID: "stats_standard_9",
			Keys: []string{
				"nationality", "position", "age", "games", "games_starts", "minutes", "goals", "assists",
				"cards_yellow", "cards_red", "xg", "xg_assist", "progressive_carries", "progressive_passes",
				"progressive_passes_received", "goals_per90", "assists_per90", "xg_per90", "xg_assist_per90",
			},
		},
		{
			TableID: "stats_keeper_9",
			Keys: []string{
				"gk_goals_against_per90", "gk_save_pct", "gk_clean_sheets_pct", "gk_pens_save_pct",
			},
		},
		{
			TableID: "stats_shooting_9",
			Keys: []string{
				"shots_on_target_pct", "shots_on_target_per90", "goals_per_shot", "average_shot_distance",
			},
		},
		{
			TableID: "stats_passing_9",
			Keys: []string{
				"passes_completed", "passes_pct", "passes_total_distance", "passes_pct_short", "passes_pct_medium",
				"passes_pct_long", "assisted_shots", "passes_into_final_third", "passes_into_penalty_area",
				"crosses_into_penalty_area",
			},
		},
		{
			TableID: "stats_gca_9",
			Keys:    []string{"sca", "sca_per90", "gca", "gca_per90"},
		},
		{
			TableID: "stats_defense_9",
			Keys: []string{
				"tackles", "tackles_won", "challenges", "challenges_lost", "blocks", "blocked_shots",
				"blocked_passes", "interceptions",
			},
		},
		{
			TableID: "stats_possession_9",
			Keys: []string{
				"touches", "touches_def_pen_area", "touches_def_3rd", "touches_mid_3rd", "touches_att_3rd",
				"touches_att_pen_area", "take_ons", "take_ons_won_pct", "take_ons_tackled_pct", "carries",
				"carries_progressive_distance", "carries_into_final_third", "carries_into_penalty_area",
				"miscontrols", "dispossessed", "passes_received",
			},
		},
		{
			TableID: "stats_misc_9",
			Keys: []string{
				"fouls", "fouled", "offsides", "crosses", "ball_recoveries", "aerials_won", "aerials_lost",
				"aerials_won_pct",
			},
		},
	},
}
