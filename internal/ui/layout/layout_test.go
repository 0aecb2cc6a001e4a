package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{120, 40, false},
		{79, 24, true},
		{80, 23, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Cuestionario", "Acme", 42, 100)
	for _, want := range []string{"SF Assess", "Cuestionario", "Acme", "42% respondido"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if strings.Contains(RenderHeader("Inicio", "", 0, 100), "respondido") {
		t.Error("header without an assessment shows progress")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("t", "", 0, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Volver"}}, 80)
	frame := RenderFrame(header, "hola", footer, 80, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
	if !strings.Contains(frame, "Volver") {
		t.Error("footer hint missing")
	}
}
