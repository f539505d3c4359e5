// Package e2e provides end-to-end tests that run the full upload, scoring,
// and shortlist pipeline over a corpus of synthetic jobs and resumes.
package e2e

// CandidateResume is one resume in the corpus. Content is written the way
// resumes actually read: a skills line, an experience section with date
// ranges or an explicit years mention, and an education tail.
type CandidateResume struct {
	Key      string
	Filename string
	Content  string
}

// RankingCase pairs a job with candidates and the expected extremes of the
// resulting shortlist. TopKey must rank first and BottomKey last among
// completed resumes; the middle of the shortlist is allowed to vary with
// the semantic component.
type RankingCase struct {
	Description   string
	Title         string
	JD            string
	RequiredYears int
	Candidates    []CandidateResume
	TopKey        string
	BottomKey     string
}

// BuildCorpus returns ranking cases where one candidate clearly matches the
// job and one clearly does not, so ordering assertions hold regardless of
// embedding backend.
func BuildCorpus() []RankingCase {
	return []RankingCase{
		{
			Description:   "backend role favors the go platform engineer",
			Title:         "Senior Backend Engineer",
			RequiredYears: 4,
			JD: `We are hiring a Senior Backend Engineer.

Requirements:
- Strong Go and SQL skills
- Production experience with Docker and Kubernetes
- Familiarity with PostgreSQL and Redis
`,
			Candidates: []CandidateResume{
				{
					Key:      "strong-backend",
					Filename: "ada_strong.txt",
					Content: `Ada Strong
Backend engineer with 8 years of experience building Go services.

Skills
Go, SQL, Docker, Kubernetes, PostgreSQL, Redis

Experience
Platform Engineer, Loopworks, Jan 2018 - Dec 2023
Built Go microservices on Kubernetes with PostgreSQL and Redis.

Education
BSc Computer Science, 2015
`,
				},
				{
					Key:      "mid-backend",
					Filename: "bo_middle.txt",
					Content: `Bo Middle
Software developer, 3 years of experience.

Skills
Python, SQL, Docker

Experience
Developer, Crateful, Mar 2022 - Present
Maintained Python services and SQL reports.
`,
				},
				{
					Key:      "weak-backend",
					Filename: "cy_weak.txt",
					Content: `Cy Weak
Graphic designer focused on branding and illustration.

Skills
Photoshop, Illustrator, typography

Education
BA Design, 2023
`,
				},
			},
			TopKey:    "strong-backend",
			BottomKey: "weak-backend",
		},
		{
			Description:   "data role favors the machine learning candidate",
			Title:         "Data Scientist",
			RequiredYears: 3,
			JD: `Data Scientist opening.

Requirements:
- Python with pandas and numpy
- TensorFlow or PyTorch model training
- SQL for analysis
`,
			Candidates: []CandidateResume{
				{
					Key:      "strong-data",
					Filename: "dee_models.txt",
					Content: `Dee Models
Data scientist, 6 years of experience in applied machine learning.

Skills
Python, pandas, numpy, TensorFlow, PyTorch, SQL

Experience
Data Scientist, Gradienta, Feb 2019 - Jan 2025
Trained TensorFlow models and built pandas pipelines over SQL warehouses.
`,
				},
				{
					Key:      "weak-data",
					Filename: "ed_frontend.txt",
					Content: `Ed Frontend
Frontend developer.

Skills
JavaScript, React, HTML, CSS

Experience
Frontend Developer, Pixelry, Jun 2024 - Present
Built React interfaces.
`,
				},
			},
			TopKey:    "strong-data",
			BottomKey: "weak-data",
		},
	}
}
