package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"confex/internal/artifact"
)

// genConfigValues generates random config value maps
func genConfigValues() gopter.Gen {
	return gen.MapOf(gen.Identifier(), gen.AlphaString()).Map(func(m map[string]string) map[string]string {
		if m == nil {
			return map[string]string{}
		}
		return m
	})
}

// genBaseline generates random baselines with consistent versions
func genBaseline() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		genConfigValues(),
		gen.Identifier(),
	).Map(func(vals []interface{}) Baseline {
		values := vals[1].(map[string]string)
		art := artifact.ConfigArtifact{
			ConfigVersion: artifact.ComputeConfigVersion(values),
			Values:        values,
		}
		return FromArtifact(vals[0].(string), uuid.NewString(), vals[2].(string)+".yaml", art,
			time.Now().Truncate(time.Second))
	})
}

// Feature: confex, Property 17: Baseline Round-Trip
// For any valid baseline, saving and loading SHALL preserve all fields.
func TestBaselineRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("save then load preserves baseline", prop.ForAll(
		func(b Baseline) bool {
			store := NewStore(t.TempDir())
			if err := store.Save(b); err != nil {
				t.Logf("Save failed: %v", err)
				return false
			}

			loaded, err := store.Load(b.Name)
			if err != nil {
				t.Logf("Load failed: %v", err)
				return false
			}
			return reflect.DeepEqual(b, loaded)
		},
		genBaseline(),
	))

	properties.Property("artifact view keeps the version", prop.ForAll(
		func(b Baseline) bool {
			art := b.Artifact()
			return art.ConfigVersion == artifact.ComputeConfigVersion(art.Values)
		},
		genBaseline(),
	))

	properties.TestingRun(t)
}

func TestResolveDir(t *testing.T) {
	require.Equal(t, "/custom/dir", ResolveDir("/custom/dir"))
	require.Equal(t, DefaultDir(), ResolveDir(""))
}

func TestDefaultDir(t *testing.T) {
	dir := DefaultDir()
	require.True(t, strings.HasSuffix(dir, filepath.Join(".confex", "baselines")), dir)
}

func TestMultipleNamedBaselines(t *testing.T) {
	store := NewStore(t.TempDir())

	for i, name := range []string{"staging", "prod", "dev.local"} {
		values := map[string]string{"PORT": string(rune('0' + i))}
		art := artifact.ConfigArtifact{ConfigVersion: artifact.ComputeConfigVersion(values), Values: values}
		require.NoError(t, store.Save(FromArtifact(name, "run", "confex.yaml", art, time.Now())))
	}

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	require.Equal(t, "dev.local", summaries[0].Name)
	require.Equal(t, "prod", summaries[1].Name)
	require.Equal(t, "staging", summaries[2].Name)
	require.Equal(t, 1, summaries[0].Keys)

	prod, err := store.Load("prod")
	require.NoError(t, err)
	require.Equal(t, "1", prod.Values["PORT"])
}

func TestBaselineListAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	summaries, err := store.List()
	require.NoError(t, err)
	require.Empty(t, summaries)

	art := artifact.ConfigArtifact{ConfigVersion: artifact.ComputeConfigVersion(nil), Values: map[string]string{}}
	require.NoError(t, store.Save(FromArtifact("empty", "run", "confex.yaml", art, time.Now())))
	require.True(t, store.Exists("empty"))

	// Invalid files are skipped when listing
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	summaries, err = store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	require.NoError(t, store.Delete("empty"))
	require.False(t, store.Exists("empty"))
}

func TestLoadNotFound(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load("missing")
	require.True(t, errors.Is(err, ErrBaselineNotFound))
}

func TestDeleteNotFound(t *testing.T) {
	err := NewStore(t.TempDir()).Delete("missing")
	require.ErrorIs(t, err, ErrBaselineNotFound)
}

func TestInvalidNames(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"", "../escape", "a/b", ".hidden", "with space"} {
		require.ErrorIs(t, ValidateName(name), ErrInvalidName, name)
		require.False(t, store.Exists(name))
		_, err := store.Load(name)
		require.ErrorIs(t, err, ErrInvalidName)
	}
}

func TestLoadRejectsTamperedValues(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	values := map[string]string{"A": "1"}
	art := artifact.ConfigArtifact{ConfigVersion: artifact.ComputeConfigVersion(values), Values: values}
	require.NoError(t, store.Save(FromArtifact("base", "run", "confex.yaml", art, time.Now())))

	path := filepath.Join(dir, "base.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(data), `"A": "1"`, `"A": "2"`, 1)), 0644))

	_, err = store.Load("base")
	require.ErrorIs(t, err, artifact.ErrVersionMismatch)
}
