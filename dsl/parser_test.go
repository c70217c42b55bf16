package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/brainscreen/dsl"
)

func TestParseLineKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind dsl.Kind
		args int
	}{
		{`cursorY += 10;`, dsl.KindAdvanceCursorY, 1},
		{`cursorX = 5;`, dsl.KindSetCursorX, 1},
		{`Brain.Screen.setFillColor(color(220, 38, 38));`, dsl.KindSetFillColor, 1},
		{`Brain.Screen.setPenColor(color(255,255,255));`, dsl.KindSetPenColor, 1},
		{`Brain.Screen.drawRectangle(cursorX, cursorY, 240-2*cursorX, 40);`, dsl.KindDrawRectangle, 4},
		{`Brain.Screen.drawRoundedRectangle(cursorX, cursorY, 100, 40, 5);`, dsl.KindDrawRoundedRectangle, 5},
		{`Brain.Screen.printAt(cursorX + 10, cursorY + 0, "Hi");`, dsl.KindPrintAt, 3},
		{`Brain.Screen.drawImageFromFile(cursorX, cursorY, "logo.png");`, dsl.KindDrawImage, 3},
		{`// <div class="bg-red-500">`, dsl.KindComment, 0},
	}
	for _, tc := range cases {
		in, err := dsl.ParseLine(tc.src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.src, err)
		}
		if in.Kind != tc.kind {
			t.Fatalf("%q: expected kind %s, got %s", tc.src, tc.kind, in.Kind)
		}
		if len(in.Args) != tc.args {
			t.Fatalf("%q: expected %d args, got %d", tc.src, tc.args, len(in.Args))
		}
	}
}

func TestParseLineSetFont(t *testing.T) {
	for _, src := range []string{`Brain.Screen.setFont(monoL);`, `Brain.Screen.setFont("monoL");`} {
		in, err := dsl.ParseLine(src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
		if in.Kind != dsl.KindSetFont || in.Text != "monoL" {
			t.Fatalf("%q: expected font monoL, got %+v", src, in)
		}
	}
}

func TestCommaInsideStringIsNotSplit(t *testing.T) {
	in, err := dsl.ParseLine(`Brain.Screen.printAt(cursorX + 1, cursorY, "a, b, (c)");`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(in.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(in.Args))
	}
	text, ok := in.Args[2].Literal()
	if !ok || text != "a, b, (c)" {
		t.Fatalf("unexpected text arg: %q", text)
	}
}

func TestCommaInsideNestedCallIsNotSplit(t *testing.T) {
	in, err := dsl.ParseLine(`Brain.Screen.printAt(cursorX + (240 - 2*cursorX)/2 - (Brain.Screen.getStringWidth("x, y")/2), cursorY + 0, "x, y");`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(in.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(in.Args))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	lines := []string{
		`cursorY += 20 + 2*10;`,
		`cursorX = 5;`,
		`Brain.Screen.setFillColor(color(220, 38, 38));`,
		`Brain.Screen.drawRectangle(cursorX, cursorY, 240 - 2*cursorX, 40);`,
		`Brain.Screen.printAt(cursorX + (240 - 2*cursorX) - 5 - Brain.Screen.getStringWidth("Hi"), cursorY + 0, "Hi");`,
		`Brain.Screen.printAt(cursorX + 62.5 - (Brain.Screen.getStringWidth("say \"hi\"")/2), cursorY + 25, "say \"hi\"");`,
		`Brain.Screen.setFont(monoM);`,
		`// <p class="text-lg">`,
	}
	for _, src := range lines {
		in, err := dsl.ParseLine(src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
		if got := in.Encode(); got != src {
			t.Fatalf("round trip mismatch:\n got: %s\nwant: %s", got, src)
		}
	}
}

func TestParseLineRejects(t *testing.T) {
	bad := []string{
		`return 0;`,
		`}`,
		`cursorY = 5;`,
		`Brain.Screen.drawCircle(1, 2, 3);`,
		`Brain.Screen.drawRectangle(1, 2, 3);`,
		`Brain.Screen.setFont(1 + 2);`,
		``,
	}
	for _, src := range bad {
		if _, err := dsl.ParseLine(src); err == nil {
			t.Fatalf("expected %q to be rejected", src)
		}
	}
}

func TestBodyStripsHeaderAndFooter(t *testing.T) {
	program := dsl.EncodeProgram([][]dsl.Instruction{
		{dsl.AdvanceCursorY(dsl.Num(5)), dsl.SetCursorX(dsl.Num(5))},
	})
	if !strings.HasPrefix(program, "#include <vex.h>") || !strings.HasSuffix(program, "}") {
		t.Fatalf("unexpected program framing:\n%s", program)
	}
	body := dsl.Body(program)
	if len(body) != 2 {
		t.Fatalf("expected 2 body lines, got %d: %+v", len(body), body)
	}
	if body[0].Text != "cursorY += 5;" || body[1].Text != "cursorX = 5;" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body[0].Number != len(dsl.Header)+1 {
		t.Fatalf("expected first body line number %d, got %d", len(dsl.Header)+1, body[0].Number)
	}
}

func TestBodyKeepsHandWrittenSnippet(t *testing.T) {
	body := dsl.Body("cursorY += 1;\n\n  cursorX = 2;\n")
	if len(body) != 2 || body[1].Number != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}
