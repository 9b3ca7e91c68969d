package processor

import (
	"reflect"
	"testing"
)

func TestFilterByLocation(t *testing.T) {
	df := loadTestFrame(t, [][]string{
		{"location", "date", "total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"},
		{"Brazil", "2021-01-01", "100", "2", "10", "1", "0"},
		{"Chad", "2021-01-01", "20", "1", "2", "0", "0"},
		{"Brazil", "2021-01-02", "150", "3", "50", "1", "0"},
	})

	slice := FilterByLocation(df, "Brazil")

	if slice.Nrow() != 2 {
		t.Fatalf("expected 2 rows for Brazil, got %d", slice.Nrow())
	}
	// 原有行序保持不变
	if got := slice.Col("date").Records(); !reflect.DeepEqual(got, []string{"2021-01-01", "2021-01-02"}) {
		t.Errorf("unexpected row order: %v", got)
	}
	for _, loc := range slice.Col("location").Records() {
		if loc != "Brazil" {
			t.Errorf("unexpected location in slice: %s", loc)
		}
	}
}

func TestFilterByLocationIsCaseSensitive(t *testing.T) {
	df := loadTestFrame(t, [][]string{
		{"location", "date", "total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"},
		{"Brazil", "2021-01-01", "100", "2", "10", "1", "0"},
	})

	if got := FilterByLocation(df, "brazil").Nrow(); got != 0 {
		t.Errorf("lowercase name matched %d rows, want 0", got)
	}
}

func TestFilterByLocationUnknownNameReturnsEmpty(t *testing.T) {
	df := loadTestFrame(t, [][]string{
		{"location", "date", "total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"},
		{"Brazil", "2021-01-01", "100", "2", "10", "1", "0"},
	})

	slice := FilterByLocation(df, "Atlantis")
	if slice.Nrow() != 0 {
		t.Errorf("expected empty slice for unknown name, got %d rows", slice.Nrow())
	}
}

func TestListLocations(t *testing.T) {
	df := loadTestFrame(t, [][]string{
		{"location", "date", "total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"},
		{"Brazil", "2021-01-01", "100", "2", "10", "1", "0"},
		{"Chad", "2021-01-01", "20", "1", "2", "0", "0"},
		{"Brazil", "2021-01-02", "150", "3", "50", "1", "0"},
		{"Aland", "2021-01-01", "5", "0", "1", "0", "0"},
	})

	got := ListLocations(df)
	want := []string{"Aland", "Brazil", "Chad"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListLocations = %v, want %v", got, want)
	}
}

func TestHasLocation(t *testing.T) {
	df := loadTestFrame(t, [][]string{
		{"location", "date", "total_cases", "total_deaths", "new_cases", "new_deaths", "total_vaccinations"},
		{"Brazil", "2021-01-01", "100", "2", "10", "1", "0"},
	})

	if !HasLocation(df, "Brazil") {
		t.Error("HasLocation(Brazil) = false, want true")
	}
	if HasLocation(df, "Atlantis") {
		t.Error("HasLocation(Atlantis) = true, want false")
	}
}
