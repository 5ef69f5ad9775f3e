package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"

	examgen "github.com/oelwan/AI-EXAME-GENERATOR"
)

const cookieName = "exam-session"

type Server struct {
	db        *examgen.DB
	store     *sessions.CookieStore
	templates map[string]*template.Template
	llm       examgen.Completer
	active    *activeSessions
}

func main() {
	examgen.SetVerbose(os.Getenv("EXAMGEN_VERBOSE") != "")

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "GROQ_API_KEY environment variable is required. Add your Groq API key and restart.")
		os.Exit(1)
	}

	dbPath := os.Getenv("EXAMGEN_DB")
	if dbPath == "" {
		dbPath = "./examgen.db"
	}
	db, err := examgen.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "examgen-dev-secret"
	}
	store := sessions.NewCookieStore([]byte(secret))

	server := &Server{
		db:        db,
		store:     store,
		templates: loadTemplates(),
		llm:       examgen.NewClient(apiKey),
		active:    newActiveSessions(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/", server.handleHome)
	r.Post("/generate", server.handleGenerate)
	r.Get("/quiz/{sessionID}", server.handleQuiz)
	r.Post("/quiz/{sessionID}/submit", server.handleSubmit)
	r.Get("/quiz/{sessionID}/results", server.handleResults)
	r.Post("/quiz/{sessionID}/practice", server.handlePractice)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.Printf("Starting server on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func loadTemplates() map[string]*template.Template {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
		"derefInt": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"printf": fmt.Sprintf,
	}

	templateFiles := []struct {
		name string
		file string
	}{
		{"home", "templates/home.html"},
		{"quiz", "templates/quiz.html"},
		{"coding", "templates/coding.html"},
		{"results", "templates/results.html"},
	}

	templates := make(map[string]*template.Template)
	for _, tmpl := range templateFiles {
		templates[tmpl.name] = template.Must(
			template.New(tmpl.name).Funcs(funcMap).ParseFiles("templates/base.html", tmpl.file))
	}
	return templates
}
