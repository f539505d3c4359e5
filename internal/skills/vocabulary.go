// Package skills detects occurrences of a curated skill vocabulary in free
// text and scores the overlap between two skill sets.
package skills

import (
	"regexp"
	"strings"
)

// defaultVocabulary is the curated set of recognized skill terms. Terms are
// matched case-insensitively on word boundaries; the canonical form is the
// lowercased term. Recall lives or dies on this curation.
var defaultVocabulary = []string{
	// Core programming and scripting
	"python", "java", "javascript", "js", "ecmascript", "typescript", "ts",
	"c++", "cpp", "c#", "csharp", "c",
	"html", "html5", "css", "css3", "scss", "sass",
	"php", "ruby", "go", "golang", "swift", "kotlin", "scala", "perl",
	"bash", "shell", "shell scripting", "ksh", "powershell",
	"sql", "pl/sql", "tsql", "sql server", "mssql",
	"r",

	// Backend frameworks
	"node.js", "nodejs", "express", "express.js",
	"flask", "django", "fastapi",
	"ruby on rails", "ror",
	"laravel", "symfony",
	"spring", "spring boot", "java ee", "jakarta ee", "j2ee",
	".net", ".net core", ".net framework", "asp.net", "asp.net core", "entity framework",

	// Frontend frameworks
	"react", "react.js", "reactjs",
	"angular", "angular.js", "angularjs",
	"vue", "vue.js", "vuejs",
	"next.js", "nextjs", "gatsby", "svelte", "sveltekit",
	"jquery", "bootstrap", "tailwind css", "material ui", "mui", "chakra ui", "ant design",
	"redux", "mobx", "zustand", "rxjs", "ngrx", "vuex", "pinia",
	"webpack", "vite", "parcel", "babel", "eslint", "prettier", "webassembly", "wasm",

	// Databases and data storage
	"mysql", "postgresql", "postgres", "mariadb", "sqlite", "microsoft sql server",
	"oracle", "oracle database",
	"nosql", "mongodb", "couchbase", "cassandra", "dynamodb", "firebase", "firestore",
	"redis", "memcached", "elasticsearch", "solr", "opensearch",
	"database design", "database modeling", "data modeling", "database administration", "dba",
	"data warehousing", "etl", "sqlalchemy", "hibernate", "jpa", "jdbc", "odbc",

	// APIs and protocols
	"rest", "restful", "rest apis", "graphql", "grpc", "soap", "openapi", "swagger",
	"json", "xml", "protobuf", "http", "https", "tcp/ip", "udp", "websockets", "oauth", "jwt", "saml",

	// Cloud platforms
	"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud platform",
	"heroku", "digitalocean", "netlify", "vercel", "firebase hosting",
	"ec2", "s3", "rds", "lambda", "ebs", "elastic ip", "vpc", "route 53", "cloudfront", "iam", "cognito",
	"azure vm", "azure blob storage", "azure functions", "azure sql database", "azure ad",
	"gce", "google compute engine", "google cloud storage", "google cloud functions", "bigquery",
	"serverless", "faas",
	"eks", "ecs", "gke", "aks",

	// DevOps and infrastructure
	"docker", "kubernetes", "k8s", "containerization", "containers",
	"ci/cd", "continuous integration", "continuous deployment", "continuous delivery",
	"jenkins", "gitlab ci", "github actions", "travis ci", "circleci", "argocd", "spinnaker", "azure devops",
	"terraform", "ansible", "puppet", "chef", "cloudformation", "pulumi", "infrastructure as code", "iac",
	"monitoring", "logging", "observability", "prometheus", "grafana", "datadog", "new relic", "splunk", "elk stack", "opentelemetry",
	"nginx", "apache", "haproxy", "envoy", "istio", "service mesh",
	"system administration", "sysadmin", "site reliability engineering", "sre",

	// OS and systems
	"linux", "unix", "ubuntu", "debian", "centos", "rhel", "fedora", "windows server", "macos", "mac os x",

	// ML / AI / data science
	"machine learning", "ml",
	"deep learning", "dl", "neural networks",
	"nlp", "natural language processing", "text mining", "sentiment analysis",
	"computer vision", "cv", "image processing", "object detection",
	"data analysis", "data analytics", "data visualization", "business intelligence", "bi",
	"data science", "data scientist",
	"statistics", "statistical modeling", "hypothesis testing", "a/b testing",
	"pandas", "numpy", "scipy", "scikit-learn", "sklearn", "statsmodels",
	"tensorflow", "tf", "keras",
	"pytorch", "torch",
	"jupyter", "jupyter notebook", "jupyterlab",
	"matplotlib", "seaborn", "plotly", "bokeh", "d3.js", "tableau", "power bi", "qlik",
	"big data", "spark", "pyspark", "hadoop", "mapreduce", "hive", "presto", "kafka", "flink",
	"data mining", "feature engineering", "model evaluation", "model deployment", "mlops",
	"recommender systems", "time series analysis", "forecasting", "optimization", "operations research",

	// Version control
	"git", "github", "gitlab", "bitbucket", "svn", "version control", "gitflow",

	// Testing
	"testing", "test automation", "unit testing", "integration testing", "system testing", "acceptance testing", "e2e testing",
	"qa", "quality assurance", "manual testing",
	"selenium", "webdriver", "cypress", "playwright", "puppeteer", "appium",
	"jest", "mocha", "chai", "enzyme", "react testing library", "rtl", "vue test utils",
	"junit", "testng", "nunit", "xunit",
	"pytest", "unittest", "tox", "nose", "robot framework",
	"postman", "insomnia", "api testing", "load testing", "performance testing", "jmeter", "locust", "k6",

	// Methodologies and project management
	"agile", "scrum", "kanban", "lean", "xp", "extreme programming", "waterfall", "safe", "scaled agile framework",
	"jira", "confluence", "trello", "asana", "slack", "microsoft teams",
	"project management", "product management", "product owner", "scrum master", "business analysis", "user stories", "sprint",

	// Soft skills
	"communication", "teamwork", "collaboration", "problem solving", "analytical skills",
	"leadership", "mentoring", "critical thinking", "adaptability", "time management",
	"attention to detail", "creativity", "interpersonal skills", "presentation skills",
	"customer service", "client relations", "stakeholder management",
}

// defaultBrandAllowList is the small set of tech brands accepted verbatim
// when the entity tagger reports them, a recall boost for proper nouns the
// word-boundary pass might miss in dense text.
var defaultBrandAllowList = []string{
	"Microsoft", "Google", "Amazon Web Services", "AWS", "Azure",
	"React", "Angular", "Docker", "Kubernetes", "MySQL", "PostgreSQL", "MongoDB",
}

// vocabEntry is one compiled vocabulary term.
type vocabEntry struct {
	canonical string
	pattern   *regexp.Regexp
}

// Vocabulary is the immutable compiled skill vocabulary plus the brand
// allow-list. Built once at startup, read-only afterwards.
type Vocabulary struct {
	entries []vocabEntry
	terms   map[string]struct{}
	brands  map[string]struct{}
}

// NewVocabulary compiles the default vocabulary and allow-list, with any
// extra terms appended (extras from config, lowercased).
func NewVocabulary(extraTerms, extraBrands []string) *Vocabulary {
	v := &Vocabulary{
		terms:  make(map[string]struct{}),
		brands: make(map[string]struct{}),
	}
	for _, term := range defaultVocabulary {
		v.addTerm(term)
	}
	for _, term := range extraTerms {
		v.addTerm(term)
	}
	for _, b := range defaultBrandAllowList {
		v.brands[b] = struct{}{}
	}
	for _, b := range extraBrands {
		v.brands[b] = struct{}{}
	}
	return v
}

func (v *Vocabulary) addTerm(term string) {
	canonical := strings.ToLower(strings.TrimSpace(term))
	if canonical == "" {
		return
	}
	if _, dup := v.terms[canonical]; dup {
		return
	}
	v.terms[canonical] = struct{}{}
	v.entries = append(v.entries, vocabEntry{
		canonical: canonical,
		pattern:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(canonical) + `\b`),
	})
}

// Contains reports whether the lowercased term is in the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.terms[strings.ToLower(term)]
	return ok
}

// IsAllowedBrand reports whether the literal entity text is in the brand allow-list.
func (v *Vocabulary) IsAllowedBrand(text string) bool {
	_, ok := v.brands[text]
	return ok
}

// Size returns the number of vocabulary terms.
func (v *Vocabulary) Size() int {
	return len(v.entries)
}
