package lineage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laketrace/internal/domain"
)

func sampleRow() domain.Row {
	pipelineID := "p1"
	updateID := "u1"
	link := "https://example.cloud.databricks.com/pipelines/p1/updates/u1?o=12345"
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return domain.Row{
		EntityCatalog:                  "c",
		EntitySchema:                   "s",
		EntityName:                     "main",
		LineageDirection:               "upstream",
		CatalogName:                    "c",
		SchemaName:                     "s",
		TableName:                      "t1",
		Type:                           "TABLE",
		LatestPipelineID:               &pipelineID,
		LatestUpdateID:                 &updateID,
		LatestPipelineLineageTimestamp: &ts,
		PipelineLink:                   &link,
		NotebookLinks:                  "null",
	}
}

// === Compilation ===

func TestCompileRowFilter_Empty(t *testing.T) {
	_, err := CompileRowFilter("   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompileRowFilter_ParseError(t *testing.T) {
	_, err := CompileRowFilter(`lineage_direction ==`)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "parse filter")
}

func TestCompileRowFilter_TooLarge(t *testing.T) {
	_, err := CompileRowFilter(strings.Repeat("x or ", 2000) + "x")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

// === Matching ===

func TestRowFilter_Match(t *testing.T) {
	for _, tc := range []struct {
		name string
		expr string
		want bool
	}{
		{"direction_eq", `lineage_direction == "upstream"`, true},
		{"direction_neq", `lineage_direction == "downstream"`, false},
		{"table_name", `table_name == "t1" and type == "TABLE"`, true},
		{"null_check", `notebook_links == "null"`, true},
		{"pipeline_present", `latest_pipeline_id != None`, true},
		{"string_method", `pipeline_link.startswith("https://")`, true},
		{"timestamp_string", `latest_pipeline_lineage_timestamp == "2024-01-01 10:00:00"`, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := CompileRowFilter(tc.expr)
			require.NoError(t, err)

			got, err := f.Match(sampleRow())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRowFilter_NullColumnsAreNone(t *testing.T) {
	row := sampleRow()
	row.LatestPipelineID = nil
	row.LatestUpdateID = nil
	row.LatestPipelineLineageTimestamp = nil
	row.PipelineLink = nil

	f, err := CompileRowFilter(`latest_pipeline_id == None and pipeline_link == None`)
	require.NoError(t, err)

	got, err := f.Match(row)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRowFilter_UnknownNameFails(t *testing.T) {
	f, err := CompileRowFilter(`no_such_column == 1`)
	require.NoError(t, err)

	_, err = f.Match(sampleRow())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "evaluate filter")
}

func TestRowFilter_StepCap(t *testing.T) {
	f, err := CompileRowFilter(`len([x for x in range(1000000)])`)
	require.NoError(t, err)

	_, err = f.Match(sampleRow())
	require.Error(t, err)
}

// === Apply ===

func TestRowFilter_ApplyPreservesOrder(t *testing.T) {
	up := sampleRow()
	down := sampleRow()
	down.TableName = "t2"
	down.LineageDirection = "downstream"
	na := sampleRow()
	na.TableName = "t3"
	na.LineageDirection = "NA"

	f, err := CompileRowFilter(`lineage_direction != "downstream"`)
	require.NoError(t, err)

	got, err := f.Apply([]domain.Row{up, down, na})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].TableName)
	assert.Equal(t, "t3", got[1].TableName)
}
