package text_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/text"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/testsupport"
)

func TestRender_Idle(t *testing.T) {
	eng := testsupport.Engine(t)
	out := renderString(t, text.New(), eng.Snapshot(), render.RenderOptions{
		FormTypes: render.FormTypeOptions(eng.Registry()),
	})

	for _, want := range []string{
		"No form selected.",
		"  - User Information (userInfo)",
		"  - Payment Information (paymentInfo)",
		"No submitted entries.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRender_FieldsErrorsAndProgress(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("paymentInfo"))
	testsupport.Fill(t, eng, map[string]string{"cvv": "123", "cardNumber": "4111"})
	res, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := renderString(t, text.New(text.WithBarWidth(10)), res.Snapshot, render.RenderOptions{})

	for _, want := range []string{
		"Payment Information (paymentInfo)",
		"Progress: [#####.....] 50%",
		"Card Number *",
		"4111",
		"***",
		"Errors:\n  ! Expiry Date is required\n  ! Cardholder Name is required\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "123") {
		t.Fatalf("password value leaked:\n%s", out)
	}
}

func TestRender_EntriesAndNotice(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("addressInfo"))
	testsupport.Fill(t, eng, map[string]string{"street": "1 Main", "city": "Austin", "state": "Texas"})
	res, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := renderString(t, text.New(), res.Snapshot, render.RenderOptions{Notice: session.SubmittedMessage})

	if !strings.HasPrefix(out, session.SubmittedMessage+"\n\n") {
		t.Fatalf("expected notice first:\n%s", out)
	}
	for _, want := range []string{"Progress: [....................] 0%", "Submitted entries (1):", "Street", "Austin", "addressInfo", "[California | Texas | New York]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRender_PasswordMasking(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("paymentInfo"))
	testsupport.Fill(t, eng, map[string]string{
		"cardNumber":     "4111",
		"expiryDate":     "2030-01-31",
		"cvv":            "987",
		"cardholderName": "Ann Lee",
	}, "cardNumber", "expiryDate", "cvv", "cardholderName")
	if _, err := eng.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	testsupport.Fill(t, eng, map[string]string{"cvv": "456"})
	snapshot := eng.Snapshot()

	masked := renderString(t, text.New(), snapshot, render.RenderOptions{})
	for _, secret := range []string{"987", "456"} {
		if strings.Contains(masked, secret) {
			t.Fatalf("password %q leaked:\n%s", secret, masked)
		}
	}
	if !strings.Contains(masked, "Ann Lee") {
		t.Fatalf("expected entry values in output:\n%s", masked)
	}

	revealed := renderString(t, text.New(text.WithPasswordMasking(false)), snapshot, render.RenderOptions{})
	for _, secret := range []string{"987", "456"} {
		if !strings.Contains(revealed, secret) {
			t.Fatalf("expected %q with masking off:\n%s", secret, revealed)
		}
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := text.New().Render(ctx, session.Snapshot{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestProgressBar(t *testing.T) {
	cases := map[int]string{
		-5:  "[....]",
		0:   "[....]",
		33:  "[#...]",
		66:  "[##..]",
		100: "[####]",
		250: "[####]",
	}
	for percent, want := range cases {
		if got := text.ProgressBar(percent, 4); got != want {
			t.Fatalf("ProgressBar(%d) = %q, want %q", percent, got, want)
		}
	}
}

func renderString(t *testing.T, renderer *text.Renderer, snapshot session.Snapshot, options render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), snapshot, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}
