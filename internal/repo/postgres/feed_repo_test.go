package postgres

import (
	"reflect"
	"strings"
	"testing"
)

func TestFeedCandidatesQueryShape(t *testing.T) {
	predicates := map[string]string{
		"viewer excluded":          "u.id <> $1",
		"onboarding gate":          "u.onboarding_complete = TRUE",
		"banned excluded":          "u.banned = FALSE",
		"suspended excluded":       "u.suspended = FALSE",
		"admins excluded":          "u.role <> 'admin'",
		"gender preference":        "LOWER(COALESCE(p.gender, '')) = ANY($3::text[])",
		"hidden profiles":          "COALESCE(ps.profile_visible, TRUE) = TRUE",
		"already swiped anti-join": "i.from_user_id = $1",
		"blocks both directions":   "OR (b.actor_user_id = u.id AND b.target_user_id = $1)",
		"selective mode gate":      "COALESCE(ps.selective_mode, FALSE) = FALSE",
		"selective reverse like":   "rev.kind IN ('like', 'superlike')",
		"keyset tiebreak":          "OR (u.created_at = $5::timestamptz AND u.id < $6::bigint)",
		"stable ordering":          "ORDER BY u.created_at DESC, u.id DESC",
	}

	for name, fragment := range predicates {
		if !strings.Contains(feedCandidatesQuery, fragment) {
			t.Errorf("candidate query lost the %s predicate %q", name, fragment)
		}
	}
}

func TestNormalizeGenders(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"lowercases and trims", []string{" Female ", "MALE"}, []string{"female", "male"}},
		{"drops duplicates", []string{"female", "female", "Female"}, []string{"female"}},
		{"drops blanks", []string{"", "  ", "nonbinary"}, []string{"nonbinary"}},
		{"keeps everyone marker", []string{"Everyone"}, []string{"everyone"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeGenders(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("normalizeGenders(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
