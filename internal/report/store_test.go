package report

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	mu     sync.Mutex
	saved  []Snapshot
	names  []string
	result bool
	block  chan struct{}
}

func (f *fakeSaver) SaveDraft(_ context.Context, fileName string, snapshot Snapshot) bool {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, fileName)
	f.saved = append(f.saved, snapshot)
	return f.result
}

func strPtr(s string) *string {
	return &s
}

func TestStore_Uninitialized(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})

	_, ok := store.Snapshot()
	assert.False(t, ok)
	assert.False(t, store.Initialized())
	assert.ErrorIs(t, store.UpdateSection(SectionMMT, ContactBlock{}), ErrNoReport)
	assert.ErrorIs(t, store.UpdateMetadata(MetadataPatch{FileName: strPtr("x")}), ErrNoReport)
	assert.ErrorIs(t, store.SaveDraft(context.Background()), ErrNoReport)
}

func TestStore_InitializeNewReport(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.LoadReport(Snapshot{Metadata: Metadata{FileName: "old", SubmissionID: "remote-1"}})

	store.InitializeNewReport("  Q1 Report ")

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Q1 Report", snapshot.FileName)
	assert.Empty(t, snapshot.SubmissionID)
	assert.False(t, snapshot.Dirty)
	assert.Empty(t, snapshot.Present())
}

func TestStore_UpdateSection(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")

	t.Run("typed value", func(t *testing.T) {
		err := store.UpdateSection(SectionECC, ECCSection{ECCEntry: ECCEntry{PermitHolder: "Acme Mining"}})
		require.NoError(t, err)

		snapshot, _ := store.Snapshot()
		require.NotNil(t, snapshot.ECC)
		assert.Equal(t, Text("Acme Mining"), snapshot.ECC.PermitHolder)
		assert.True(t, snapshot.Dirty)
	})

	t.Run("raw json keeps defaults for missing keys", func(t *testing.T) {
		err := store.UpdateSection(SectionWaterQuality, json.RawMessage(`{"samplingDate": 20250101}`))
		require.NoError(t, err)

		snapshot, _ := store.Snapshot()
		require.NotNil(t, snapshot.WaterQuality)
		assert.Equal(t, Text("20250101"), snapshot.WaterQuality.SamplingDate)
		assert.NotNil(t, snapshot.WaterQuality.Parameters)
	})

	t.Run("null clears the section", func(t *testing.T) {
		require.NoError(t, store.UpdateSection(SectionWaterQuality, json.RawMessage(`null`)))

		snapshot, _ := store.Snapshot()
		assert.False(t, snapshot.Has(SectionWaterQuality))
	})

	t.Run("unknown section", func(t *testing.T) {
		err := store.UpdateSection("notASection", map[string]any{})
		assert.ErrorIs(t, err, ErrUnknownSection)
	})

	t.Run("sections are independent", func(t *testing.T) {
		require.NoError(t, store.UpdateSection(SectionMMT, ContactBlock{EmailAddress: "mmt@example.com"}))

		snapshot, _ := store.Snapshot()
		assert.Equal(t, Text("Acme Mining"), snapshot.ECC.PermitHolder)
		assert.Equal(t, Text("mmt@example.com"), snapshot.MMT.EmailAddress)
	})
}

func TestStore_UpdateMultipleSectionsIsAllOrNothing(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")

	err := store.UpdateMultipleSections(map[SectionName]any{
		SectionPermitHolderType: PermitHolderMultiple,
		SectionMMT:              json.RawMessage(`{"emailAddress": [`),
	})
	require.Error(t, err)

	snapshot, _ := store.Snapshot()
	assert.False(t, snapshot.Has(SectionPermitHolderType))
	assert.False(t, snapshot.Dirty)

	err = store.UpdateMultipleSections(map[SectionName]any{
		SectionPermitHolderType: PermitHolderMultiple,
		SectionECC:              map[string]any{"isNotApplicable": true},
	})
	require.NoError(t, err)

	snapshot, _ = store.Snapshot()
	require.NotNil(t, snapshot.PermitHolderType)
	assert.Equal(t, Text(PermitHolderMultiple), *snapshot.PermitHolderType)
	assert.True(t, snapshot.ECC.IsNotApplicable.Bool())
}

func TestStore_UpdateMetadataLeavesDirtyAlone(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")

	require.NoError(t, store.UpdateMetadata(MetadataPatch{
		SubmissionID: strPtr("abc"),
		ProjectName:  strPtr("North Pit"),
	}))

	snapshot, _ := store.Snapshot()
	assert.Equal(t, "report", snapshot.FileName)
	assert.Equal(t, "abc", snapshot.SubmissionID)
	assert.Equal(t, "North Pit", snapshot.ProjectName)
	assert.True(t, snapshot.Submitted())
	assert.False(t, snapshot.Dirty)
}

func TestStore_UpdateMetadataForSameReport(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")

	_, generation, ok := store.Current()
	require.True(t, ok)

	// edits do not change which report is open
	require.NoError(t, store.UpdateSection(SectionMMT, ContactBlock{ContactPersonAndPosition: "Lead"}))
	require.NoError(t, store.UpdateMetadataFor(generation, MetadataPatch{SubmissionID: strPtr("abc")}))

	snapshot, _ := store.Snapshot()
	assert.Equal(t, "abc", snapshot.SubmissionID)
	assert.True(t, snapshot.Dirty)
}

func TestStore_UpdateMetadataForRejectsOtherReport(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("first")
	_, generation, _ := store.Current()

	store.LoadReport(Snapshot{Metadata: Metadata{FileName: "second"}})
	err := store.UpdateMetadataFor(generation, MetadataPatch{SubmissionID: strPtr("abc")})
	assert.ErrorIs(t, err, ErrReportChanged)

	snapshot, _ := store.Snapshot()
	assert.Equal(t, "second", snapshot.FileName)
	assert.False(t, snapshot.Submitted())

	// reopening a report with the same file name is still a different report
	_, generation, _ = store.Current()
	store.InitializeNewReport("second")
	assert.ErrorIs(t, store.UpdateMetadataFor(generation, MetadataPatch{ProjectID: strPtr("p")}), ErrReportChanged)

	store.ClearReport()
	assert.ErrorIs(t, store.UpdateMetadataFor(generation, MetadataPatch{ProjectID: strPtr("p")}), ErrNoReport)
}

func TestStore_LoadReportFlattensNestedBody(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{
		"fileName": "loaded",
		"generalInfo": {"companyName": "Acme"},
		"complianceMonitoringReport": {
			"airQualityImpactAssessment": {"samplingDate": "2025-02-01"}
		}
	}`), &snapshot))
	assert.Equal(t, ShapeNested, snapshot.Shape())

	store.LoadReport(snapshot)

	loaded, ok := store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, ShapeFlat, loaded.Shape())
	require.NotNil(t, loaded.AirQuality)
	assert.Equal(t, Text("2025-02-01"), loaded.AirQuality.SamplingDate)
	assert.False(t, loaded.Has(SectionWaterQuality))

	value, err := loaded.Value(SectionWaterQuality)
	require.NoError(t, err)
	assert.IsType(t, QualityAssessment{}, value)
}

func TestStore_SaveDraft(t *testing.T) {
	saver := &fakeSaver{result: true}
	store := NewStore(saver)
	store.InitializeNewReport("draft-a")
	require.NoError(t, store.UpdateSection(SectionMMT, ContactBlock{}))

	require.NoError(t, store.SaveDraft(context.Background()))
	require.NoError(t, store.SaveDraft(context.Background()))

	assert.Equal(t, []string{"draft-a", "draft-a"}, saver.names)
	snapshot, _ := store.Snapshot()
	assert.False(t, snapshot.Dirty)
}

func TestStore_SaveDraftFailureKeepsDirty(t *testing.T) {
	store := NewStore(&fakeSaver{result: false})
	store.InitializeNewReport("draft-a")
	require.NoError(t, store.UpdateSection(SectionMMT, ContactBlock{}))

	assert.ErrorIs(t, store.SaveDraft(context.Background()), ErrSaveFailed)

	snapshot, _ := store.Snapshot()
	assert.True(t, snapshot.Dirty)
}

func TestStore_SaveDraftInFlightGuard(t *testing.T) {
	saver := &fakeSaver{result: true, block: make(chan struct{})}
	store := NewStore(saver)
	store.InitializeNewReport("draft-a")

	done := make(chan error, 1)
	go func() {
		done <- store.SaveDraft(context.Background())
	}()

	require.Eventually(t, func() bool { return store.saving.Load() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, store.SaveDraft(context.Background()), ErrSaveInProgress)

	close(saver.block)
	assert.NoError(t, <-done)
}

func TestStore_ClearReport(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")
	store.ClearReport()

	_, ok := store.Snapshot()
	assert.False(t, ok)
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	store := NewStore(&fakeSaver{result: true})
	store.InitializeNewReport("report")
	require.NoError(t, store.UpdateSection(SectionECC, ECCSection{AdditionalForms: []ECCEntry{{PermitHolder: "A"}}}))

	snapshot, _ := store.Snapshot()
	snapshot.ECC.AdditionalForms[0].PermitHolder = "changed"

	again, _ := store.Snapshot()
	assert.Equal(t, Text("A"), again.ECC.AdditionalForms[0].PermitHolder)
}
