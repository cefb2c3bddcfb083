package bayes

import (
	"bytes"
	"encoding/gob"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/simplebayes/simplebayes/bayes/category"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	source := NewClassifier()
	trainFruitCorpus(t, source)

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	restored := NewClassifier()
	if err := restored.Load(&buf); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if !reflect.DeepEqual(source.Info(), restored.Info()) {
		t.Fatalf("corpus mismatch after round trip:\nsource=%v\nrestored=%v", source.Info(), restored.Info())
	}

	text := "green and round but sweet"
	if !reflect.DeepEqual(source.Score(text), restored.Score(text)) {
		t.Fatalf("score mismatch after round trip:\nsource=%v\nrestored=%v", source.Score(text), restored.Score(text))
	}
}

func TestSaveLoadRoundTripAfterZeroWeightTraining(t *testing.T) {
	source := NewClassifier()
	if err := source.TrainWeighted("spam", "buy now", 0); err != nil {
		t.Fatalf("unexpected training error: %v", err)
	}
	if err := source.Train("ham", "hello world"); err != nil {
		t.Fatalf("unexpected training error: %v", err)
	}

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	restored := NewClassifier()
	if err := restored.Load(&buf); err != nil {
		t.Fatalf("zero-weight training must survive a round trip: %v", err)
	}
	if !reflect.DeepEqual(source.Info(), restored.Info()) {
		t.Fatalf("corpus mismatch after round trip:\nsource=%v\nrestored=%v", source.Info(), restored.Info())
	}
}

func TestSaveNilWriter(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.Save(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoadNilReader(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.Load(nil); err == nil {
		t.Fatal("expected error for nil reader")
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	state := modelState{
		Version:    99,
		SnapshotID: NewSnapshotID(),
		Categories: map[string]category.PersistedCategory{},
	}
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	classifier := NewClassifier()
	if err := classifier.Load(&buf); !errors.Is(err, errUnsupportedVersion) {
		t.Fatalf("expected unsupported version error, got %v", err)
	}
}

func TestLoadRejectsMalformedStateWithoutSideEffects(t *testing.T) {
	var buf bytes.Buffer
	state := modelState{
		Version:    persistedModelVersion,
		SnapshotID: NewSnapshotID(),
		Categories: map[string]category.PersistedCategory{
			"bad": {Tokens: map[string]float64{"token": -1}, Trainings: 1},
		},
	}
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	classifier := NewClassifier()
	trainFruitCorpus(t, classifier)
	before := classifier.Info()

	if err := classifier.Load(&buf); err == nil {
		t.Fatal("expected error for malformed persisted state")
	}
	if !reflect.DeepEqual(before, classifier.Info()) {
		t.Fatalf("corpus changed after rejected load:\nbefore=%v\nafter=%v", before, classifier.Info())
	}
}

func TestLoadGarbageInput(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.Load(bytes.NewBufferString("not a gob stream")); err == nil {
		t.Fatal("expected decode error for garbage input")
	}
}

func TestSaveToFileLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")

	source := NewClassifier()
	trainFruitCorpus(t, source)
	if err := source.SaveToFile(path); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	restored := NewClassifier()
	if err := restored.LoadFromFile(path); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !reflect.DeepEqual(source.Info(), restored.Info()) {
		t.Fatalf("corpus mismatch after file round trip:\nsource=%v\nrestored=%v", source.Info(), restored.Info())
	}
}

func TestSaveToFileRejectsRelativePath(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.SaveToFile("relative/model.gob"); !errors.Is(err, errPathNotAbsolute) {
		t.Fatalf("expected absolute path error, got %v", err)
	}
}

func TestLoadFromFileMissingFile(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.LoadFromFile(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestNewSnapshotIDUnique(t *testing.T) {
	first := NewSnapshotID()
	second := NewSnapshotID()

	if first == "" || second == "" {
		t.Fatal("expected non-empty snapshot IDs")
	}
	if first == second {
		t.Fatalf("expected distinct snapshot IDs, got %q twice", first)
	}
	if second < first {
		t.Fatalf("expected monotonic snapshot IDs: first=%q second=%q", first, second)
	}
}
