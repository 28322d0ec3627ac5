package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/datastore"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/provider"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/translate"
)

// env ties the request handlers to their collaborators.
type env struct {
	cfg        config.Config
	ds         *datastore.DataStore
	translator *translate.Translator
	warmer     *translate.Warmer
}

func checkFatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func checkHttpWithStatus(e error, w http.ResponseWriter, status int) (hadError bool) {
	if e != nil {
		w.WriteHeader(status)

		errMsg := e.Error()
		// Don't expose the 'sql: no rows in result set' message to the user
		if status == http.StatusNotFound && e == sql.ErrNoRows {
			errMsg = "not found"
		}

		jsonErr := struct {
			Error string `json:"error"`
		}{
			Error: errMsg,
		}
		enc := json.NewEncoder(w)
		enc.Encode(jsonErr)

		return true
	}
	return false
}

func checkHttp(e error, w http.ResponseWriter) (hadError bool) {
	status := http.StatusInternalServerError
	if e == sql.ErrNoRows {
		status = http.StatusNotFound
	}
	return checkHttpWithStatus(e, w, status)
}

func setJsonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

// lang resolves the requested display language. Anything outside the
// supported set degrades to the source language rather than erroring.
func (e *env) lang(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	for _, l := range config.SupportedLangs {
		if l == lang {
			return lang
		}
	}
	return e.cfg.Translation.SourceLang
}

// Gets the supported language codes
func (e *env) getLanguagesHandler(w http.ResponseWriter, r *http.Request) {
	output := struct {
		Source    string   `json:"source"`
		Supported []string `json:"supported"`
	}{
		Source:    e.cfg.Translation.SourceLang,
		Supported: config.SupportedLangs,
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Gets all experiences, translated to the requested language
func (e *env) getExperiencesHandler(w http.ResponseWriter, r *http.Request) {
	es, err := e.ds.GetExperiences()
	if checkHttp(err, w) {
		return
	}

	es, err = e.translator.TranslateExperiences(r.Context(), es, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(es), w)
}

// Gets a single experience by id, translated to the requested language
func (e *env) getExperienceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid experience id (%v)", err.Error()), http.StatusBadRequest)
		return
	}

	exp, err := e.ds.GetExperience(id)
	if checkHttp(err, w) {
		return
	}

	exp, err = e.translator.TranslateExperience(r.Context(), exp, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(exp), w)
}

// Gets all monuments, translated to the requested language
func (e *env) getMonumentsHandler(w http.ResponseWriter, r *http.Request) {
	ms, err := e.ds.GetMonuments()
	if checkHttp(err, w) {
		return
	}

	ms, err = e.translator.TranslateMonuments(r.Context(), ms, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(ms), w)
}

// Gets a single monument by id, translated to the requested language
func (e *env) getMonumentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid monument id (%v)", err.Error()), http.StatusBadRequest)
		return
	}

	m, err := e.ds.GetMonument(id)
	if checkHttp(err, w) {
		return
	}

	m, err = e.translator.TranslateMonument(r.Context(), m, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(m), w)
}

// Gets all categories, translated to the requested language
func (e *env) getCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cs, err := e.ds.GetCategories()
	if checkHttp(err, w) {
		return
	}

	cs, err = e.translator.TranslateCategories(r.Context(), cs, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(cs), w)
}

// Gets a single guide page by slug, fully translated (flat fields,
// section blocks and rich text body)
func (e *env) getGuiaHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	g, err := e.ds.GetGuia(slug)
	if checkHttp(err, w) {
		return
	}

	g, err = e.translator.TranslateGuiaFull(r.Context(), g, e.lang(r))
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(g), w)
}

// Translates an arbitrary list of texts for the rendering layer
func (e *env) translateBatchHandler(w http.ResponseWriter, r *http.Request) {
	var content struct {
		Texts      []string `json:"texts"`
		TargetLang string   `json:"target_lang"`
	}

	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&content)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not decode request (%v)", err.Error()), http.StatusBadRequest)
		return
	}

	texts := e.translator.TranslateBatch(r.Context(), content.Texts, content.TargetLang)

	output := struct {
		Texts []string `json:"texts"`
	}{Texts: texts}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Populates the translation cache for every collection and target language
func (e *env) warmCacheHandler(w http.ResponseWriter, r *http.Request) {
	report := e.warmer.WarmAll(r.Context())

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(report), w)
}

// Deletes every translation cache entry
func (e *env) clearCacheHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := e.ds.ClearTranslations()
	if checkHttp(err, w) {
		return
	}

	output := struct {
		Deleted int64 `json:"deleted"`
	}{Deleted: deleted}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Reports cache size and translation counters
func (e *env) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := e.ds.CountTranslations()
	if checkHttp(err, w) {
		return
	}

	output := struct {
		Entries int64              `json:"entries"`
		Totals  translate.Snapshot `json:"totals"`
	}{
		Entries: entries,
		Totals:  e.translator.Metrics().Snapshot(),
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

func Serve(c config.Config) {
	var db *sqlx.DB
	db, err := sqlx.Connect(c.DB.Driver, c.DB.ConnectionString())
	checkFatal(err)

	ds, err := datastore.New(db, c.DB.Driver)
	checkFatal(err)

	translator := translate.New(ds, provider.New(c.Translation), c.Translation.SourceLang, slog.Default())
	warmer := translate.NewWarmer(translator, ds, c.Translation.TargetLangs, slog.Default())

	e := &env{cfg: c, ds: ds, translator: translator, warmer: warmer}

	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/languages", e.getLanguagesHandler).Methods("GET")
	r.HandleFunc("/experiences", e.getExperiencesHandler).Methods("GET")
	r.HandleFunc("/experiences/{id}", e.getExperienceHandler).Methods("GET")
	r.HandleFunc("/monuments", e.getMonumentsHandler).Methods("GET")
	r.HandleFunc("/monuments/{id}", e.getMonumentHandler).Methods("GET")
	r.HandleFunc("/categories", e.getCategoriesHandler).Methods("GET")
	r.HandleFunc("/guias/{slug}", e.getGuiaHandler).Methods("GET")
	r.HandleFunc("/translate", e.translateBatchHandler).Methods("POST")
	r.HandleFunc("/cache/warm", e.warmCacheHandler).Methods("POST")
	r.HandleFunc("/cache", e.clearCacheHandler).Methods("DELETE")
	r.HandleFunc("/cache/stats", e.cacheStatsHandler).Methods("GET")

	rWithMiddleWares := handlers.CombinedLoggingHandler(os.Stdout, setJsonHeaders(r))

	slog.Info("listening", "port", c.Server.Port)
	http.ListenAndServe(fmt.Sprintf(":%v", c.Server.Port), rWithMiddleWares)
}
