/*
Package catalog defines the marketplace entity types and which of their
fields carry translatable text.

Every entity implements Translatable: VisitTexts applies a function to
each translatable slot in a fixed, declared order (flat fields first,
then array elements, then rich text leaves). Running the same visitor
once to collect and once to substitute guarantees extraction and rebuild
agree on slot order by construction.
*/
package catalog

import (
	"github.com/rferruzq202217/ridatours-marketplace-sub000/richtext"
)

// Translatable is implemented by every entity whose text can be translated.
// VisitTexts must visit translatable slots in a stable order and replace
// each slot with the visitor's return value. Non-text fields are never
// touched by the visitor.
type Translatable interface {
	VisitTexts(fn func(string) string) error
}

// Experience is a bookable tour or activity.
type Experience struct {
	ID          int64    `json:"id" db:"id"`
	Slug        string   `json:"slug" db:"slug"`
	CityID      int64    `json:"city_id" db:"city_id"`
	Title       string   `json:"title" db:"title"`
	Description string   `json:"description" db:"description"`
	Highlights  []string `json:"highlights"`
	Tips        []string `json:"tips"`
	Price       float64  `json:"price" db:"price"`
	ImageURL    string   `json:"image_url" db:"image_url"`
}

func (e *Experience) VisitTexts(fn func(string) string) error {
	e.Title = fn(e.Title)
	e.Description = fn(e.Description)
	visitSlice(e.Highlights, fn)
	visitSlice(e.Tips, fn)
	return nil
}

// Clone returns a deep copy of the experience.
func (e *Experience) Clone() *Experience {
	cp := *e
	cp.Highlights = cloneSlice(e.Highlights)
	cp.Tips = cloneSlice(e.Tips)
	return &cp
}

// FAQ is one question/answer entry on a monument page.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Monument is a landmark page with its visiting guide sections.
type Monument struct {
	ID          int64    `json:"id" db:"id"`
	Slug        string   `json:"slug" db:"slug"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	WhyVisit    []string `json:"why_visit"`
	WhatToSee   []string `json:"what_to_see"`
	FAQs        []FAQ    `json:"faqs"`
	ImageURL    string   `json:"image_url" db:"image_url"`
}

func (m *Monument) VisitTexts(fn func(string) string) error {
	m.Name = fn(m.Name)
	m.Description = fn(m.Description)
	visitSlice(m.WhyVisit, fn)
	visitSlice(m.WhatToSee, fn)
	for i := range m.FAQs {
		m.FAQs[i].Question = fn(m.FAQs[i].Question)
		m.FAQs[i].Answer = fn(m.FAQs[i].Answer)
	}
	return nil
}

// Clone returns a deep copy of the monument.
func (m *Monument) Clone() *Monument {
	cp := *m
	cp.WhyVisit = cloneSlice(m.WhyVisit)
	cp.WhatToSee = cloneSlice(m.WhatToSee)
	if m.FAQs != nil {
		cp.FAQs = make([]FAQ, len(m.FAQs))
		copy(cp.FAQs, m.FAQs)
	}
	return &cp
}

// Category groups experiences (e.g. museums, food tours).
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Slug        string `json:"slug" db:"slug"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

func (c *Category) VisitTexts(fn func(string) string) error {
	c.Name = fn(c.Name)
	c.Description = fn(c.Description)
	return nil
}

// Clone returns a copy of the category.
func (c *Category) Clone() *Category {
	cp := *c
	return &cp
}

// GuiaSection is one heading/content block of a guide page.
type GuiaSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Guia is a long-form guide page: flat title fields, block sections and
// a rich text body.
type Guia struct {
	ID              int64          `json:"id" db:"id"`
	Slug            string         `json:"slug" db:"slug"`
	Title           string         `json:"title" db:"title"`
	Subtitle        string         `json:"subtitle" db:"subtitle"`
	MetaDescription string         `json:"meta_description" db:"meta_description"`
	Sections        []GuiaSection  `json:"sections"`
	Body            *richtext.Node `json:"body"`
}

func (g *Guia) VisitTexts(fn func(string) string) error {
	g.Title = fn(g.Title)
	g.Subtitle = fn(g.Subtitle)
	g.MetaDescription = fn(g.MetaDescription)
	for i := range g.Sections {
		g.Sections[i].Heading = fn(g.Sections[i].Heading)
		g.Sections[i].Content = fn(g.Sections[i].Content)
	}
	return g.Body.VisitTexts(fn)
}

// Clone returns a deep copy of the guide, body tree included.
func (g *Guia) Clone() *Guia {
	cp := *g
	if g.Sections != nil {
		cp.Sections = make([]GuiaSection, len(g.Sections))
		copy(cp.Sections, g.Sections)
	}
	cp.Body = g.Body.Clone()
	return &cp
}

func visitSlice(ss []string, fn func(string) string) {
	for i := range ss {
		ss[i] = fn(ss[i])
	}
}

func cloneSlice(ss []string) []string {
	if ss == nil {
		return nil
	}
	cp := make([]string, len(ss))
	copy(cp, ss)
	return cp
}
