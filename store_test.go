package journal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/journal/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTemp opens a store on a file in a fresh temporary directory, optionally seeded with content.
func openTemp(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func entry(day string, account int, debit, credit string) Entry {
	return NewEntry(date.MustParse(day), account, dec(debit), dec(credit), false)
}

func readFile(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return string(data)
}

func TestOpen_MissingFile(t *testing.T) {
	s := openTemp(t, "")

	assert.Empty(t, s.List())
	assert.Equal(t, 1, s.NextID())
	assert.Equal(t, 0, s.Len())
	_, err := os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "opening must not create the file")
}

func TestOpen_UnreadableFile(t *testing.T) {
	// A directory can be opened but not read as a journal.
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestOpen_NextIDIncludesDeleted(t *testing.T) {
	s := openTemp(t, `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"no"}
{"id":5,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"yes"}
{"id":3,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"no"}
`)
	assert.Equal(t, 6, s.NextID())
	assert.Equal(t, 3, s.Len())

	ids := []int{}
	for _, e := range s.List() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{1, 3}, ids, "file order is kept")
}

func TestOpen_Tolerance(t *testing.T) {
	s := openTemp(t, `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":100,"amount_credit":40,"total":60,"reconciled":false,"isdeleted":"no"}
#### not an entry ####
`)
	entries := s.List()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, 2, s.NextID())
}

func TestOpen_KeepsStoredValues(t *testing.T) {
	// Loading does not validate: an inconsistent total and an unknown tombstone are kept as is.
	s := openTemp(t, `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":100,"amount_credit":40,"total":3,"reconciled":false,"isdeleted":"no"}
{"id":2,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"unknown"}
`)
	e, ok := s.Get(1)
	require.True(t, ok)
	assert.True(t, e.Total.Equal(dec("3")))

	_, ok = s.Get(2)
	assert.False(t, ok, "an unknown tombstone hides the entry")
	assert.Error(t, s.Delete(2))

	require.NoError(t, s.Save())
	assert.Contains(t, readFile(t, s), `"isdeleted":"unknown"`)
}

func TestAdd_IncreasingIDs(t *testing.T) {
	s := openTemp(t, "")

	var ids []int
	for i := 0; i < 3; i++ {
		e, err := s.Add(entry("2024-01-05", 10, "1", "0"))
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	require.NoError(t, s.Delete(3))
	_, err := s.Update(1, entry("2024-01-06", 11, "2", "0"))
	require.NoError(t, err)
	e, err := s.Add(entry("2024-01-07", 12, "3", "0"))
	require.NoError(t, err)
	ids = append(ids, e.ID)

	assert.Equal(t, []int{1, 2, 3, 4}, ids)
}

func TestAdd_IgnoresCallerFields(t *testing.T) {
	s := openTemp(t, "")

	candidate := entry("2024-01-05", 10, "100", "40")
	candidate.ID = 99
	candidate.Total = dec("12345")
	candidate.Status = Deleted

	e, err := s.Add(candidate)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
	assert.True(t, e.Total.Equal(dec("60")), "total = %v, want 60", e.Total)
	assert.Equal(t, Live, e.Status)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.True(t, got.Equal(e))
}

func TestAdd_NegativeAccountRoundTrip(t *testing.T) {
	s := openTemp(t, "")
	first, err := s.Add(entry("2024-01-05", -3, "1", "0"))
	require.NoError(t, err)

	reloaded, err := Open(s.Path())
	require.NoError(t, err)
	require.Len(t, reloaded.List(), 1)
	assert.Equal(t, -3, reloaded.List()[0].AccountID)

	// The id of the reloaded entry is not given again.
	second, err := reloaded.Add(entry("2024-01-06", 1, "1", "0"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestAdd_RejectsInvalidDate(t *testing.T) {
	tests := map[string]Entry{
		"zero date":   {AccountID: 1},
		"year 10000":  NewEntry(date.New(10000, time.January, 1), 1, dec("1"), dec("0"), false),
		"before 0001": NewEntry(date.New(0, time.December, 31), 1, dec("1"), dec("0"), false),
	}
	for name, candidate := range tests {
		t.Run(name, func(t *testing.T) {
			s := openTemp(t, "")
			_, err := s.Add(candidate)
			assert.ErrorIs(t, err, ErrInvalidEntry)
			assert.False(t, IsFatal(err))
			assert.Equal(t, 1, s.NextID(), "a rejected entry does not consume an id")
			assert.Equal(t, 0, s.Len())
			_, statErr := os.Stat(s.Path())
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing is written")

			// The store stays usable.
			e, err := s.Add(entry("2024-01-05", 1, "1", "0"))
			require.NoError(t, err)
			assert.Equal(t, 1, e.ID)
		})
	}
}

func TestUpdate_RejectsInvalidDate(t *testing.T) {
	s := openTemp(t, "")
	orig, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)
	before := readFile(t, s)

	replacement := orig
	replacement.Date = date.Date{}
	_, err = s.Update(orig.ID, replacement)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	got, ok := s.Get(orig.ID)
	require.True(t, ok)
	assert.True(t, got.Equal(orig), "a rejected update leaves the entry unchanged")
	assert.Equal(t, before, readFile(t, s))
}

func TestOpen_LargestID(t *testing.T) {
	s := openTemp(t, `{"id":4294967294,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"no"}
{"id":9223372036854775807,"journal_date":"2024-01-05","account_id":10,"amount_debt":1,"amount_credit":0,"total":1,"reconciled":false,"isdeleted":"no"}
`)
	// The out of range id is not an entry, it cannot move the next id.
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, MaxID, s.NextID())

	e, err := s.Add(entry("2024-01-06", 1, "1", "0"))
	require.NoError(t, err)
	assert.Equal(t, MaxID, e.ID)

	_, err = s.Add(entry("2024-01-07", 1, "1", "0"))
	assert.ErrorIs(t, err, ErrIDsExhausted)
	assert.False(t, IsFatal(err))
	assert.Equal(t, 2, s.Len(), "ids are never reused nor wrapped")
	for _, e := range s.List() {
		assert.Positive(t, e.ID)
	}
}

func TestAdd_Persists(t *testing.T) {
	s := openTemp(t, "")

	_, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)

	want := `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":100,"amount_credit":40,"total":60,"reconciled":false,"isdeleted":"no"}` + "\n"
	assert.Equal(t, want, readFile(t, s))
}

func TestUpdate_RecomputesTotal(t *testing.T) {
	s := openTemp(t, "")
	_, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)

	replacement := entry("2024-02-01", 20, "50", "50")
	replacement.ID = 7
	replacement.Total = dec("999")
	replacement.Reconciled = true
	replacement.Status = Deleted

	e, err := s.Update(1, replacement)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
	assert.True(t, e.Total.IsZero(), "total = %v, want 0", e.Total)
	assert.Equal(t, Live, e.Status)
	assert.Equal(t, 20, e.AccountID)
	assert.Equal(t, date.New(2024, time.February, 1), e.Date)
	assert.True(t, e.Reconciled)

	list := s.List()
	require.Len(t, list, 1)
	assert.True(t, list[0].Equal(e))
	assert.Equal(t, 2, s.NextID())
}

func TestUpdate_MissLeavesStoreUnchanged(t *testing.T) {
	s := openTemp(t, "")
	_, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)
	_, err = s.Add(entry("2024-01-06", 11, "5", "1"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(2))

	before, file := s.List(), readFile(t, s)

	for _, id := range []int{2, 3, 0, -1} {
		_, err := s.Update(id, entry("2024-03-01", 1, "1", "1"))
		assert.ErrorIs(t, err, ErrNotFound, "Update(%d)", id)
		assert.False(t, IsFatal(err))
	}

	assert.Equal(t, before, s.List())
	assert.Equal(t, file, readFile(t, s))
	_, ok := s.Get(2)
	assert.False(t, ok, "update must not resurrect a deleted entry")
}

func TestDelete_IsPermanent(t *testing.T) {
	s := openTemp(t, "")
	_, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(1))
	assert.ErrorIs(t, s.Delete(1), ErrNotFound)

	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.Empty(t, s.List())
	assert.Equal(t, 1, s.Len(), "deleted entries are kept")
	assert.Contains(t, readFile(t, s), `"isdeleted":"yes"`)

	// And after a reload.
	reloaded, err := Open(s.Path())
	require.NoError(t, err)
	_, ok = reloaded.Get(1)
	assert.False(t, ok)
	assert.Empty(t, reloaded.List())
}

func TestRoundTrip(t *testing.T) {
	s := openTemp(t, "")
	for _, e := range []Entry{
		entry("2024-01-05", 10, "100", "40"),
		entry("2024-01-06", 11, "0.1", "0.2"),
		entry("2024-01-07", 12, "-5", "5"),
	} {
		_, err := s.Add(e)
		require.NoError(t, err)
	}
	require.NoError(t, s.Delete(2))
	_, err := s.Update(3, entry("2024-01-08", 13, "7.25", "0"))
	require.NoError(t, err)

	reloaded, err := Open(s.Path())
	require.NoError(t, err)

	want, got := s.List(), reloaded.List()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "entry %d: got %v, want %v", i, got[i], want[i])
	}
	assert.Equal(t, s.NextID(), reloaded.NextID())
}

func TestScenario(t *testing.T) {
	s := openTemp(t, "")

	e, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
	assert.True(t, e.Total.Equal(dec("60")))
	assert.False(t, e.IsDeleted())

	require.NoError(t, s.Delete(1))
	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.Empty(t, s.List())

	e, err = s.Add(entry("2024-01-06", 10, "10", "0"))
	require.NoError(t, err)
	assert.Equal(t, 2, e.ID)

	e, err = s.Update(2, entry("2024-01-06", 10, "50", "50"))
	require.NoError(t, err)
	assert.True(t, e.Total.IsZero())
	assert.False(t, e.IsDeleted())

	_, err = s.Update(1, entry("2024-01-06", 10, "50", "50"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistFailure_Diverges(t *testing.T) {
	s := openTemp(t, "")
	_, err := s.Add(entry("2024-01-05", 10, "100", "40"))
	require.NoError(t, err)

	// Replace the journal file with a directory: the next rewrite cannot happen.
	require.NoError(t, os.Remove(s.Path()))
	require.NoError(t, os.Mkdir(s.Path(), 0755))

	_, err = s.Add(entry("2024-01-06", 11, "1", "0"))
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.False(t, errors.Is(err, ErrNotFound))
	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, s.Path(), pe.Path)
	assert.True(t, strings.Contains(err.Error(), s.Path()))

	// Every later mutation reports the same failure, even if the disk recovered.
	require.NoError(t, os.Remove(s.Path()))
	_, err2 := s.Update(1, entry("2024-01-06", 11, "1", "0"))
	assert.Same(t, pe, errorAsPersist(t, err2))
	assert.Same(t, pe, errorAsPersist(t, s.Delete(1)))
	_, err3 := s.Add(entry("2024-01-06", 11, "1", "0"))
	assert.Same(t, pe, errorAsPersist(t, err3))
	assert.Same(t, pe, errorAsPersist(t, s.Save()))

	_, statErr := os.Stat(s.Path())
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "a diverged store must not write anymore")
}

func errorAsPersist(t *testing.T, err error) *PersistError {
	t.Helper()
	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	return pe
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "entries.txt")
	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Add(entry("2024-01-05", 10, "1", "0"))
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_DropsGarbage(t *testing.T) {
	good := `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":100.0,"amount_credit":40.0,"total":60.0,"reconciled":false,"isdeleted":"no"}`
	s := openTemp(t, good+"\ngarbage\n\n")

	require.NoError(t, s.Save())

	want := `{"id":1,"journal_date":"2024-01-05","account_id":10,"amount_debt":100,"amount_credit":40,"total":60,"reconciled":false,"isdeleted":"no"}` + "\n"
	assert.Equal(t, want, readFile(t, s))
}
