package session

import (
	"testing"

	"foresight/internal/dataset"
	"foresight/internal/forecast"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]string{"Year"}, [][]string{{"2001"}, {"2002"}})
}

// TestCreateAndGet 测试会话创建与查询
func TestCreateAndGet(t *testing.T) {
	m := NewManager()

	s := m.Create(testDataset(), "data.csv")
	if s.ID == "" {
		t.Fatal("session id should not be empty")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Filename != "data.csv" {
		t.Errorf("Filename = %s, want data.csv", got.Filename)
	}
	if got.Dataset.NumRows() != 2 {
		t.Errorf("dataset rows = %d, want 2", got.Dataset.NumRows())
	}
}

// TestGetNotFound 查询不存在的会话
func TestGetNotFound(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("nope"); err == nil {
		t.Error("Get() should fail for unknown session")
	}
}

// TestSetResult 记录分析结果
func TestSetResult(t *testing.T) {
	m := NewManager()
	s := m.Create(testDataset(), "data.csv")

	bundle := &forecast.Bundle{Pipeline: "lr"}
	if err := m.SetResult(s.ID, bundle); err != nil {
		t.Fatalf("SetResult() error = %v", err)
	}

	got, _ := m.Get(s.ID)
	if got.LastResult != bundle {
		t.Error("LastResult not stored")
	}

	if err := m.SetResult("nope", bundle); err == nil {
		t.Error("SetResult() should fail for unknown session")
	}
}

// TestDelete 删除会话
func TestDelete(t *testing.T) {
	m := NewManager()
	s := m.Create(testDataset(), "data.csv")

	m.Delete(s.ID)
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
	if _, err := m.Get(s.ID); err == nil {
		t.Error("Get() should fail after delete")
	}
}

// TestSessionIsolation 各会话互不影响
func TestSessionIsolation(t *testing.T) {
	m := NewManager()
	a := m.Create(testDataset(), "a.csv")
	b := m.Create(testDataset(), "b.csv")

	if a.ID == b.ID {
		t.Fatal("session ids must be unique")
	}
	if err := m.SetResult(a.ID, &forecast.Bundle{Pipeline: "tfdea"}); err != nil {
		t.Fatal(err)
	}

	gotB, _ := m.Get(b.ID)
	if gotB.LastResult != nil {
		t.Error("result leaked across sessions")
	}
}
