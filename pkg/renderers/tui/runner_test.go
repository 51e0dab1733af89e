package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	passwords    []string
	infoMessages []string
	selectMsgs   []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

// Select aborts once the script runs out so runaway loops end the test.
func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectMsgs = append(s.selectMsgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) saw(msg string) bool {
	for _, info := range s.infoMessages {
		if strings.Contains(info, msg) {
			return true
		}
	}
	return false
}

func menu(action string) int {
	return indexOf(menuActions, action)
}

func newRunner(t *testing.T, driver *stubDriver, options ...session.Option) (*Runner, *session.Engine) {
	t.Helper()
	eng := testsupport.Engine(t, options...)
	runner, err := New(eng, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner, eng
}

func TestRun_SubmitAndEditEntry(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionFillFields),
			menu(ActionSubmit),
			menu(ActionEditEntry), 0,
			menu(ActionSubmit),
			menu(ActionQuit),
		},
		inputs: []string{
			"Ann", "Lee", "abc", "30",
			"Anne", "Lee", "31",
		},
	}
	runner, eng := newRunner(t, driver, session.WithFormType("userInfo"))

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries := eng.Snapshot().Entries
	if len(entries) != 1 {
		t.Fatalf("expected one entry after edit, got %d", len(entries))
	}
	want := map[string]string{"firstName": "Anne", "lastName": "Lee", "age": "31"}
	if diff := cmp.Diff(want, entries[0].Values); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
	if !driver.saw("Invalid Age: not a number") {
		t.Fatalf("expected number validation message, got %v", driver.infoMessages)
	}
	if !driver.saw("Editing entry 0 (User Information).") {
		t.Fatalf("expected edit message, got %v", driver.infoMessages)
	}
	if !driver.saw(session.SubmittedMessage) {
		t.Fatalf("expected submit notice, got %v", driver.infoMessages)
	}
	if got := driver.selectMsgs[3].Options; len(got) != 1 || got[0] != "#0 userInfo: Ann, Lee, 30" {
		t.Fatalf("unexpected entry options %v", got)
	}
}

func TestRun_DropdownPlaceholderLeavesRequiredError(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionSelectForm), 1,
			menu(ActionFillFields), 0,
			menu(ActionSubmit),
			menu(ActionQuit),
		},
		inputs: []string{"1 Main", "Austin", ""},
	}
	runner, eng := newRunner(t, driver)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	dropdown := driver.selectMsgs[3]
	if diff := cmp.Diff([]string{"Select State", "California", "Texas", "New York"}, dropdown.Options); diff != "" {
		t.Fatalf("dropdown options mismatch (-want +got):\n%s", diff)
	}
	if !driver.saw("State is required") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}

	snap := eng.Snapshot()
	if snap.ActiveFormType != "addressInfo" || len(snap.Entries) != 0 || snap.Progress != 50 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRun_PasswordAndDate(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionFillFields),
			menu(ActionSubmit),
			menu(ActionQuit),
		},
		inputs:    []string{"4111", "14/03/2030", "2030-03-14", "Ann Lee"},
		passwords: []string{"123"},
	}
	runner, eng := newRunner(t, driver, session.WithFormType("paymentInfo"))

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.saw("Invalid Expiry Date: expected YYYY-MM-DD") {
		t.Fatalf("expected date validation message, got %v", driver.infoMessages)
	}
	entries := eng.Snapshot().Entries
	if len(entries) != 1 || entries[0].Values["cvv"] != "123" || entries[0].Values["expiryDate"] != "2030-03-14" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestRun_RecalledPasswordKeepOrClear(t *testing.T) {
	fill := []string{"4111", "2030-03-14", "Ann Lee"}
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionFillFields),
			menu(ActionSubmit),
			menu(ActionEditEntry), 0,
			menu(ActionSubmit),
			menu(ActionEditEntry), 0,
			menu(ActionSubmit),
			menu(ActionQuit),
		},
		inputs:    append(append(append([]string{}, fill...), fill...), fill...),
		passwords: []string{"123", ""},
		confirm:   []bool{true, false},
	}
	runner, eng := newRunner(t, driver, session.WithFormType("paymentInfo"))

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	snap := eng.Snapshot()
	if len(snap.Entries) != 0 {
		t.Fatalf("expected the cleared entry to stay in the form, got %+v", snap.Entries)
	}
	if value, ok := snap.Values["cvv"]; !ok || value != "" {
		t.Fatalf("expected cvv cleared, got %q (present %v)", value, ok)
	}
	if !driver.saw("CVV is required") {
		t.Fatalf("expected required message after clearing, got %v", driver.infoMessages)
	}
	if driver.passPos != 2 || driver.confirmPos != 2 {
		t.Fatalf("unexpected prompt counts: %d passwords, %d confirms", driver.passPos, driver.confirmPos)
	}
}

func TestRun_DeleteEntry(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionDeleteEntry),
			menu(ActionFillFields),
			menu(ActionSubmit),
			menu(ActionDeleteEntry), 0,
			menu(ActionDeleteEntry), 0,
			menu(ActionShowEntries),
			menu(ActionQuit),
		},
		inputs:  []string{"Ann", "Lee", ""},
		confirm: []bool{false, true},
	}
	runner, eng := newRunner(t, driver, session.WithFormType("userInfo"))

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eng.Snapshot().Entries) != 0 {
		t.Fatalf("expected entry deleted")
	}
	if !driver.saw("No submitted entries.") || !driver.saw("Deleted entry 0.") {
		t.Fatalf("unexpected messages %v", driver.infoMessages)
	}
}

func TestRun_IdleErrorsAreReported(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menu(ActionSubmit),
			menu(ActionFillFields),
			menu(ActionQuit),
		},
	}
	runner, _ := newRunner(t, driver)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.saw(session.ErrNoActiveForm.Error()) {
		t.Fatalf("expected no-active-form message, got %v", driver.infoMessages)
	}
	if !driver.saw("No form selected.") {
		t.Fatalf("expected idle status, got %v", driver.infoMessages)
	}
}

func TestRun_AbortEndsLoop(t *testing.T) {
	runner, _ := newRunner(t, &stubDriver{})
	if err := runner.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRun_ThemePrefixes(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{menu(ActionSubmit), menu(ActionQuit)}}
	eng := testsupport.Engine(t, session.WithFormType("userInfo"))
	runner, err := New(eng, WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "> ", ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.saw("! First Name is required") || !strings.HasPrefix(driver.infoMessages[0], "> User Information") {
		t.Fatalf("unexpected messages %v", driver.infoMessages)
	}
}

func TestNew_RequiresEngine(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEngineRequired) {
		t.Fatalf("expected ErrEngineRequired, got %v", err)
	}
}
