package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteCSV writes records to dir/name and returns the full path.
func WriteCSV(t *testing.T, dir, name string, records [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSubmission writes a submission file with one item_cnt_month row per value.
func WriteSubmission(t *testing.T, dir, name string, values ...float64) string {
	t.Helper()

	records := [][]string{{"ID", "item_cnt_month"}}
	for i, v := range values {
		records = append(records, []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return WriteCSV(t, dir, name, records)
}

// SpecRow is one row of the submission specification.
type SpecRow struct {
	ID     int
	ShopID int
	ItemID int
}

// WriteSpec writes test.csv with the given rows.
func WriteSpec(t *testing.T, dir string, rows ...SpecRow) string {
	t.Helper()

	records := [][]string{{"ID", "shop_id", "item_id"}}
	for _, r := range rows {
		records = append(records, []string{strconv.Itoa(r.ID), strconv.Itoa(r.ShopID), strconv.Itoa(r.ItemID)})
	}
	return WriteCSV(t, dir, "test.csv", records)
}

// FeatureRow is one row of a minimal feature set.
type FeatureRow struct {
	DateBlock int
	ShopID    int
	ItemID    int
	Target    float64
	Lag1      float64
}

// WriteFeatureSet writes feature_set_{id}.csv with the standard columns plus
// a single lag feature.
func WriteFeatureSet(t *testing.T, dir, id string, rows ...FeatureRow) string {
	t.Helper()

	records := [][]string{{"date_block_num", "shop_id", "item_id", "target", "item_cnt_lag_1"}}
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.DateBlock),
			strconv.Itoa(r.ShopID),
			strconv.Itoa(r.ItemID),
			strconv.FormatFloat(r.Target, 'f', -1, 64),
			strconv.FormatFloat(r.Lag1, 'f', -1, 64),
		})
	}
	return WriteCSV(t, dir, "feature_set_"+id+".csv", records)
}
