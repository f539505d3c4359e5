package experience

import (
	"strings"
	"testing"
)

func TestLocateExperienceBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single section terminated by education",
			text: "Jane Doe\nWork Experience\nAcme Corp\nJan 2019 - Dec 2020\nEducation\nBSc 2018",
			want: []string{"Acme Corp\nJan 2019 - Dec 2020"},
		},
		{
			name: "section runs to end of document",
			text: "Professional Experience\nBeta LLC\n2015 to 2019",
			want: []string{"Beta LLC\n2015 to 2019"},
		},
		{
			name: "repeated headers flush previous block",
			text: "Experience\nAcme Corp\nWORK EXPERIENCE\nBeta LLC",
			want: []string{"Acme Corp", "Beta LLC"},
		},
		{
			name: "no experience section",
			text: "Education\nBSc 2018\nSkills\nPython",
			want: nil,
		},
		{
			name: "uppercase header matches",
			text: "EMPLOYMENT HISTORY\nGamma Inc",
			want: []string{"Gamma Inc"},
		},
		{
			name: "header phrase mid-sentence is not a header",
			text: "Summary\nGained experience with Python while studying full time at university.",
			want: nil,
		},
		{
			name: "blank lines inside section are skipped",
			text: "Experience\nAcme Corp\n\n\nSenior Engineer\nSkills\nGo",
			want: []string{"Acme Corp\nSenior Engineer"},
		},
		{
			name: "terminator without open section is ignored",
			text: "Education\nBSc\nExperience\nAcme Corp",
			want: []string{"Acme Corp"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := LocateExperienceBlocks(strings.Split(tt.text, "\n"))
			if len(blocks) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(tt.want), blocks)
			}
			for i, b := range blocks {
				if b.Text() != tt.want[i] {
					t.Errorf("block %d = %q, want %q", i, b.Text(), tt.want[i])
				}
			}
		})
	}
}

func TestExperienceText(t *testing.T) {
	text := "Experience\nAcme Corp\nEducation\nBSc\nExperience\nBeta LLC"
	got := ExperienceText(text)
	want := "Acme Corp\n\nBeta LLC"
	if got != want {
		t.Errorf("ExperienceText = %q, want %q", got, want)
	}

	if got := ExperienceText("Education\nBSc 2018"); got != "" {
		t.Errorf("ExperienceText with no experience section = %q, want empty", got)
	}
}

func TestIsSectionHeader(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"exact", "Experience", true},
		{"uppercase", "WORK EXPERIENCE", true},
		{"with colon", "Work Experience:", true},
		{"dominant fraction", "Relevant Experience ", true},
		{"mid sentence", "I have a lot of experience building large distributed systems", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSectionHeader(tt.line, experienceHeaders); got != tt.want {
				t.Errorf("isSectionHeader(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
