package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	r := New(nil)
	assert.Equal(t, "Bobby De Cordova-Reid", r.Canonicalize("Bobby Reid"))
	assert.Equal(t, "Martin Ødegaard", r.Canonicalize("Martin Odegaard"))
	assert.Equal(t, "Bukayo Saka", r.Canonicalize("Bukayo Saka"))
}

func TestCanonicalizeIsExactMatchOnly(t *testing.T) {
	r := New(nil)
	assert.Equal(t, "bobby reid", r.Canonicalize("bobby reid"))
	assert.Equal(t, "Bobby Reid ", r.Canonicalize("Bobby Reid "))
}

func TestExtraAliasesOverrideBuiltins(t *testing.T) {
	r := New(map[string]string{
		"Gabriel":  "Gabriel Jesus",
		"  ":       "ignored",
		"Sonny":    "Son Heung-min",
		"No Value": "",
	})
	assert.Equal(t, "Gabriel Jesus", r.Canonicalize("Gabriel"))
	assert.Equal(t, "Son Heung-min", r.Canonicalize("Sonny"))
	assert.Equal(t, "No Value", r.Canonicalize("No Value"))
	assert.Equal(t, len(builtinAliases)+1, r.Len())
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	blob := "aliases:\n  N. Jackson: Nicolas Jackson\n  Bobby Reid: Bobby Decordova-Reid\n"
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	extra, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, "Nicolas Jackson", extra["N. Jackson"])

	r := New(extra)
	assert.Equal(t, "Bobby Decordova-Reid", r.Canonicalize("Bobby Reid"))
}

func TestLoadAliasesWithoutSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("other: 1\n"), 0o644))

	extra, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Empty(t, extra)
}

func TestLoadAliasesMissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	canonical := []string{"Bobby De Cordova-Reid", "Martin Ødegaard", "Bukayo Saka"}
	got := Suggest([]string{"Martin Odegaard", "Zzzz"}, canonical, 0.85)
	require.Len(t, got, 1)
	assert.Equal(t, "Martin Odegaard", got[0].Name)
	assert.Equal(t, "Martin Ødegaard", got[0].Candidate)
	assert.GreaterOrEqual(t, got[0].Similarity, 0.85)
}
