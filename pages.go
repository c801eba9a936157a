package main

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
)

type skillsView struct {
	Active     string
	Categories []content.Category
	Skills     []content.Skill
}

type projectsView struct {
	Active     string
	Categories []content.Category
	Projects   []content.Project
}

type contactView struct {
	Values   contact.Submission
	Errors   contact.FieldErrors
	Subjects []contact.Subject
}

type indexView struct {
	Content  *content.Content
	Skills   skillsView
	Projects projectsView
	Featured []content.Project
	Form     contactView
	Year     int
}

func category(c *gin.Context) string {
	if v := c.Query("category"); v != "" {
		return v
	}
	return content.AllCategory
}

func newSkillsView(doc *content.Content, active string) skillsView {
	return skillsView{Active: active, Categories: doc.SkillCategories(), Skills: doc.SkillsIn(active)}
}

func newProjectsView(doc *content.Content, active string) projectsView {
	return projectsView{Active: active, Categories: doc.ProjectCategories(), Projects: doc.ProjectsIn(active)}
}

func newContactView(values contact.Submission, errs contact.FieldErrors) contactView {
	if errs == nil {
		errs = contact.FieldErrors{}
	}
	return contactView{Values: values, Errors: errs, Subjects: contact.Subjects}
}

// Home page
func (s *server) index(c *gin.Context) {
	doc := s.content.Get()
	c.HTML(http.StatusOK, "index.html", indexView{
		Content:  doc,
		Skills:   newSkillsView(doc, content.AllCategory),
		Projects: newProjectsView(doc, content.AllCategory),
		Featured: doc.FeaturedProjects(),
		Form:     newContactView(contact.Submission{}, nil),
		Year:     s.now().Year(),
	})
}

// HTMX fragment for the skills filter tabs.
func (s *server) skills(c *gin.Context) {
	c.HTML(http.StatusOK, "skills.html", newSkillsView(s.content.Get(), category(c)))
}

// HTMX fragment for the project filter tabs.
func (s *server) projects(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", newProjectsView(s.content.Get(), category(c)))
}

// HTMX contact form endpoint, returns just the form HTML.
func (s *server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", newContactView(contact.Submission{}, nil))
}

// Handle contact form submission with HTMX. Every outcome is a 200 fragment
// so HTMX swaps it in.
func (s *server) submitContact(c *gin.Context) {
	log := logger.Named("contact")

	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		log.Warnw("unreadable contact form", logger.FieldError, err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contact.FailureNotice})
		return
	}
	sub.Normalize()
	sub.UserAgent = c.GetHeader("User-Agent")
	sub.SubmittedAt = s.now()

	if err := sub.Validate(); err != nil {
		var fe contact.FieldErrors
		if errors.As(err, &fe) {
			c.HTML(http.StatusOK, "contact.html", newContactView(sub, fe))
			return
		}
		log.Errorw("validate contact form", logger.FieldError, err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contact.FailureNotice})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), contactTimeout)
	defer cancel()
	if err := s.sender.Send(ctx, sub); err != nil {
		log.Errorw("send contact message", logger.FieldError, err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contact.FailureNotice})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": contact.SuccessNotice})
}

func (s *server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":    "Privacy",
		"tracking": s.analytics != nil,
	})
}
