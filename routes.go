package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/redterminal/portfolio/internal/contact"
	"github.com/redterminal/portfolio/internal/content"
	"github.com/redterminal/portfolio/internal/pages"
	"github.com/redterminal/portfolio/internal/scrollspy"
)

const (
	successMessage    = "Message sent successfully! I'll get back to you soon."
	errorMessage      = "Failed to send message. Please try again or email me directly."
	incompleteMessage = "Please fill in every field."
)

type contactRequest struct {
	Page string `form:"page" binding:"required"`
	contact.Form
}

type navItem struct {
	ID     scrollspy.Section
	Label  string
	Active bool
}

// contactView is what contact.html renders. Warn is a validation notice
// for the request being answered and takes the place of the status banner.
type contactView struct {
	Page    string
	Form    contact.Form
	Status  string
	Sending bool
	Notice  string
	Warn    string
	ResetMS int64
}

func newContactView(p *pages.Page, resetDelay time.Duration, warn string) contactView {
	st := p.Contact.Status()
	var notice string
	switch st {
	case contact.Success:
		notice = successMessage
	case contact.Failed:
		notice = errorMessage
	}
	return contactView{
		Page:    p.ID,
		Form:    p.Contact.Form(),
		Status:  st.String(),
		Sending: st == contact.Sending,
		Notice:  notice,
		Warn:    warn,
		ResetMS: resetDelay.Milliseconds(),
	}
}

func navItems(site *content.Site, state scrollspy.State) []navItem {
	items := make([]navItem, 0, len(site.Sections))
	for _, s := range site.Sections {
		items = append(items, navItem{ID: s.ID, Label: s.Label, Active: s.ID == state.Active})
	}
	return items
}

func setupRoutes(r *gin.Engine, live *content.Live, store *pages.Store, resetDelay time.Duration) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Home page route; every load gets its own page instance.
	r.GET("/", func(c *gin.Context) {
		site := live.Site()
		p := store.New()
		state := scrollspy.Initial()
		c.HTML(http.StatusOK, "index.html", gin.H{
			"site":     site,
			"nav":      navItems(site, state),
			"scrolled": state.IsScrolled,
			"contact":  newContactView(p, resetDelay, ""),
		})
	})

	// HTMX fragment with the current form state, fetched after the banner delay.
	r.GET("/contact", func(c *gin.Context) {
		p, err := store.Get(c.Query("page"))
		if err != nil {
			c.HTML(http.StatusGone, "contact-expired.html", nil)
			return
		}
		c.HTML(http.StatusOK, "contact.html", newContactView(p, resetDelay, ""))
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		p, err := store.Get(c.PostForm("page"))
		if err != nil {
			c.HTML(http.StatusGone, "contact-expired.html", nil)
			return
		}

		// The controller refuses to touch the fields of an in-flight
		// submission; duplicates get the sending fragment back.
		var req contactRequest
		if err := c.ShouldBind(&req); err != nil {
			err = p.Contact.SetForm(contact.Form{
				Name:    c.PostForm("name"),
				Email:   c.PostForm("email"),
				Subject: c.PostForm("subject"),
				Message: c.PostForm("message"),
			})
			if errors.Is(err, contact.ErrInFlight) {
				c.HTML(http.StatusConflict, "contact.html", newContactView(p, resetDelay, ""))
				return
			}
			c.HTML(http.StatusBadRequest, "contact.html", newContactView(p, resetDelay, incompleteMessage))
			return
		}

		_, err = p.Contact.SubmitForm(c.Request.Context(), req.Form)
		switch {
		case errors.Is(err, contact.ErrInFlight):
			c.HTML(http.StatusConflict, "contact.html", newContactView(p, resetDelay, ""))
			return
		case errors.Is(err, contact.ErrIncomplete):
			c.HTML(http.StatusBadRequest, "contact.html", newContactView(p, resetDelay, incompleteMessage))
			return
		case err != nil:
			log.Printf("Error sending contact message for page %s: %v", p.ID, err)
		default:
			log.Printf("Contact message delivered for page %s", p.ID)
		}
		c.HTML(http.StatusOK, "contact.html", newContactView(p, resetDelay, ""))
	})
}
