package admission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_AcceptsCADExtensions(t *testing.T) {
	files := []FileDescriptor{
		{Name: "part.sldprt", Size: 1024},
		{Name: "assembly.sldasm", Size: 2048},
		{Name: "drawing.slddrw", Size: 512},
		{Name: "model.step", Size: 1024},
		{Name: "datasheet.pdf", Size: 256},
		{Name: "Part.SLDPRT", Size: 256},
		{Name: "archive.v2.Step", Size: 256},
	}

	for _, f := range files {
		assert.NoError(t, Evaluate(f, TierFree), f.Name)
	}
}

func TestEvaluate_RejectsUnsupportedExtensions(t *testing.T) {
	files := []FileDescriptor{
		{Name: "virus.exe", Size: 1024},
		{Name: "script.js", Size: 512},
		{Name: "model.dwg", Size: 1024},
		{Name: "noextension", Size: 1024},
		{Name: "part.sldprt.zip", Size: 1024},
	}

	for _, tier := range Tiers() {
		for _, f := range files {
			err := Evaluate(f, tier)
			rej, ok := AsRejection(err)
			require.True(t, ok, "%s/%s", tier, f.Name)
			assert.Equal(t, ReasonUnsupportedExtension, rej.Reason)
			assert.Contains(t, rej.Message, "Unsupported file type")
			assert.ErrorIs(t, err, ErrUnsupportedExtension)
		}
	}
}

func TestEvaluate_EmptyFileForEveryTier(t *testing.T) {
	for _, tier := range Tiers() {
		err := Evaluate(FileDescriptor{Name: "part.step", Size: 0}, tier)
		rej, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, ReasonEmptyFile, rej.Reason)
		assert.Contains(t, rej.Message, "empty")
	}
}

func TestEvaluate_EmptyCheckedBeforeExtension(t *testing.T) {
	err := Evaluate(FileDescriptor{Name: "model.dwg", Size: 0}, TierTeam)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestEvaluate_AbsoluteMaxForEveryTier(t *testing.T) {
	sizes := []int64{AbsoluteMaxSize + 1, 501 * MiB, 2048 * MiB}
	for _, tier := range Tiers() {
		for _, size := range sizes {
			err := Evaluate(FileDescriptor{Name: "huge.sldprt", Size: size}, tier)
			rej, ok := AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, ReasonSizeExceedsAbsoluteMax, rej.Reason)
			assert.Contains(t, rej.Message, "500MB")
		}
	}
}

func TestEvaluate_AbsoluteMaxCheckedBeforeExtension(t *testing.T) {
	err := Evaluate(FileDescriptor{Name: "huge.exe", Size: 600 * MiB}, TierFree)
	assert.ErrorIs(t, err, ErrSizeExceedsAbsoluteMax)
}

func TestEvaluate_TierLimits(t *testing.T) {
	tests := []struct {
		name   string
		size   int64
		tier   Tier
		reject bool
	}{
		{"free at limit", 100 * MiB, TierFree, false},
		{"free just over", 100*MiB + 1, TierFree, true},
		{"free 200MB", 200 * MiB, TierFree, true},
		{"free at absolute max", AbsoluteMaxSize, TierFree, true},
		{"part-time 200MB", 200 * MiB, TierPartTime, false},
		{"full-time 200MB", 200 * MiB, TierFullTime, false},
		{"team at absolute max", AbsoluteMaxSize, TierTeam, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(FileDescriptor{Name: "bracket.sldprt", Size: tt.size}, tt.tier)
			if !tt.reject {
				assert.NoError(t, err)
				return
			}
			rej, ok := AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, ReasonSizeExceedsTierLimit, rej.Reason)
			assert.Contains(t, rej.Message, "100MB")
			assert.Contains(t, rej.Message, "free tier")
		})
	}
}

func TestEvaluate_UnknownTier(t *testing.T) {
	err := Evaluate(FileDescriptor{Name: "part.step", Size: 10}, Tier("enterprise"))
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestEvaluate_Scenarios(t *testing.T) {
	bracket := FileDescriptor{Name: "bracket.sldprt", Size: 52428800}
	assert.NoError(t, Evaluate(bracket, TierFree))

	bigBracket := FileDescriptor{Name: "bracket.sldprt", Size: 209715200}
	err := Evaluate(bigBracket, TierFree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100MB")
	assert.NoError(t, Evaluate(bigBracket, TierTeam))

	for _, tier := range Tiers() {
		err := Evaluate(FileDescriptor{Name: "model.dwg", Size: 1024}, tier)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unsupported file type")
	}
}

func TestRejection_UnwrapsToSentinel(t *testing.T) {
	err := Evaluate(FileDescriptor{Name: "a.pdf", Size: 0}, TierFree)
	assert.True(t, errors.Is(err, ErrEmptyFile))
	assert.False(t, errors.Is(err, ErrUnsupportedExtension))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "sldprt", FileType("Bracket.SLDPRT"))
	assert.Equal(t, "pdf", FileType("notes.pdf"))
	assert.Equal(t, FileTypeUnknown, FileType("model.dwg"))
	assert.Equal(t, FileTypeUnknown, FileType("README"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("Spec.PDF"))
	assert.Equal(t, "model/step", ContentTypeFor("part.step"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("part.sldprt"))
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" Part-Time ")
	assert.True(t, ok)
	assert.Equal(t, TierPartTime, tier)

	_, ok = ParseTier("gold")
	assert.False(t, ok)
}

func TestTierLimitInvariants(t *testing.T) {
	free, _ := TierLimit(TierFree)
	for _, tier := range Tiers() {
		limit, ok := TierLimit(tier)
		require.True(t, ok)
		assert.LessOrEqual(t, limit, AbsoluteMaxSize)
		if tier != TierFree {
			assert.Less(t, free, limit)
		}
	}
}
