package extract

import (
	"fmt"
	"strings"
)

// linkedInPage renders a classroom page with two chapters. active is the
// global position of the selected lesson; body is the lesson workspace.
func linkedInPage(active int, body string) string {
	lessons := []struct {
		chapter  int
		title    string
		duration string
	}{
		{0, "Welcome", "1m 2s"},
		{0, "What you should know", "45s"},
		{1, "1. Setup: the basics", "3m 45s"},
		{1, "Chapter Quiz", "3 questions"},
	}
	chapters := []string{"Introduction", "1. Getting Started"}

	var toc strings.Builder
	for c, title := range chapters {
		fmt.Fprintf(&toc, `<section class="classroom-toc-section">
  <h2><button class="classroom-toc-section__toggle" aria-expanded="true">
    <span class="classroom-toc-section__toggle-title">%s</span>
  </button></h2>
  <ul class="classroom-toc-section__items">`, title)
		for i, l := range lessons {
			if l.chapter != c {
				continue
			}
			class := "classroom-toc-item"
			if i+1 == active {
				class += " classroom-toc-item--selected"
			}
			fmt.Fprintf(&toc, `
    <li class="%s"><a href="/learning/learning-go/%d">
      <div class="classroom-toc-item__title">
        %s
        <span class="visually-hidden">(Viewed)</span>
      </div>
      <div>%s</div>
    </a></li>`, class, i+1, l.title, l.duration)
		}
		toc.WriteString("\n  </ul>\n</section>\n")
	}

	return `<html><body>
<div class="classroom-nav__details"><h1>
  Learning Go
  <span>with Jane Doe</span>
</h1></div>
<div class="classroom-workspace-overview__header"><ul><li>2h 30m</li><li>Beginner</li></ul></div>
<nav>` + toc.String() + `</nav>
<main>` + body + `</main>
</body></html>`
}

const linkedInVideo = `<div class="classroom-media"><video src="https://files.example.com/videos/welcome.mp4?token=abc"></video></div>`

const linkedInQuiz = `<div class="classroom-quiz"><div class="chapter-quiz">
  <h3>Question 1 of 3</h3>
  <p>Which keyword starts a goroutine?</p>
  <ul><li><input type="radio"> go</li><li><input type="radio"> async</li></ul>
  <script>track()</script>
  <button>Submit</button>
</div></div>`

// teachablePage renders a lecture page with two sections.
func teachablePage(active int, body string) string {
	type lecture struct {
		section int
		name    string
	}
	lectures := []lecture{
		{0, "1- Intro: setup\n      (3:45)"},
		{0, "2- Slides"},
		{1, "3- Quiz"},
	}
	sections := []string{"Getting Started (1:05)", "Wrap Up"}

	var sidebar strings.Builder
	for s, title := range sections {
		fmt.Fprintf(&sidebar, `<div class="course-section">
  <div class="section-title">%s</div>
  <ul class="section-list">`, title)
		for i, l := range lectures {
			if l.section != s {
				continue
			}
			class := "section-item"
			if i+1 == active {
				class += " next-lecture"
			}
			fmt.Fprintf(&sidebar, `
    <li class="%s"><a class="item" href="/courses/go/lectures/%d">
      <span class="lecture-name">
      %s
      </span>
    </a></li>`, class, i+1, l.name)
		}
		sidebar.WriteString("\n  </ul>\n</div>\n")
	}

	return `<html><body>
<div class="course-sidebar"><div class="course-sidebar-head"><h2>Go for Teams</h2></div>` +
		sidebar.String() + `</div>
<div role="main" class="course-mainbar">` + body + `</div>
</body></html>`
}

const teachableDownloads = `<h2>Intro</h2>
<a class="download" href="/attachments/1/download" data-x-origin-download-name="intro.mp4">Download</a>
<a class="download" href="https://cdn.example.com/slides.pdf" data-x-origin-download-name="Intro Slides.PDF">Download</a>`

const teachableQuiz = `<div class="quiz"><h3>Check your understanding</h3><p>What does gofmt do?</p></div>`
