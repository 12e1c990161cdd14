// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme turns page component trees into WordPress theme source
// files. Rendering is pure and deterministic: the same page always yields
// the same text, every user-controlled string is HTML-escaped, and
// unknown component types degrade to a visible comment marker instead of
// failing the export.
package theme

import (
	"fmt"
	"html"
	"strings"

	"seobuilder/internal/models"
)

// componentRenderer produces the markup for one component.
type componentRenderer func(c models.Component) string

// renderers dispatches on the component type. Adding a component means
// adding an entry here; anything not listed falls through to the
// placeholder marker.
var renderers = map[string]componentRenderer{
	models.ComponentHero: renderHero,
	models.ComponentMain: renderMain,
	models.ComponentCTA:  renderCTA,
}

func renderHero(c models.Component) string {
	cta := c.StringProp("cta")
	if cta == "" {
		cta = "Learn More"
	}
	return "<header>\n" +
		"    <h1>" + html.EscapeString(c.StringProp("headline")) + "</h1>\n" +
		"    <p>" + html.EscapeString(c.StringProp("sub")) + "</p>\n" +
		"    <a href='#'>" + html.EscapeString(cta) + "</a>\n" +
		"</header>\n\n"
}

func renderMain(c models.Component) string {
	return "<main>\n" +
		"    " + html.EscapeString(c.StringProp("content")) + "\n" +
		"</main>\n\n"
}

func renderCTA(c models.Component) string {
	text := c.StringProp("text")
	if text == "" {
		text = "Click Here"
	}
	return "<section class='cta-section'>\n" +
		"    <a href='#'>" + html.EscapeString(text) + "</a>\n" +
		"</section>\n\n"
}

// RenderComponent renders one component, falling back to a visible
// HTML comment for unrecognized types.
func RenderComponent(c models.Component) string {
	if r, ok := renderers[c.Type]; ok {
		return r(c)
	}
	return fmt.Sprintf("<!-- Unknown component type: %s -->\n", html.EscapeString(c.Type))
}

// RenderPage renders a page template file. A page with no components
// gets a fallback body naming the page instead of an empty file.
func RenderPage(page *models.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<?php\n/**\n * Template Name: %s\n * Generated from SEO Builder\n */\nget_header();\n?>\n\n",
		sanitizeComment(page.Title))

	if page.Structure == nil || len(page.Structure.Components) == 0 {
		b.WriteString("<main><h1>" + html.EscapeString(page.Title) + "</h1><p>No content defined for this page.</p></main>\n")
	} else {
		for _, c := range page.Structure.Components {
			b.WriteString(RenderComponent(c))
		}
	}

	b.WriteString("\n<?php get_footer(); ?>")
	return b.String()
}

// RenderStyle renders the theme stylesheet. WordPress reads the theme
// identity from the comment block, so it must stay the first file
// content in the package.
func RenderStyle(project *models.Project, themeName string) string {
	name := sanitizeComment(project.Name)
	return fmt.Sprintf(`/*
Theme Name: SEO Builder Project %s
Description: Generated theme for project %s
Author: SEO Builder
Version: 1.0
Text Domain: %s
*/

body {
    font-family: system-ui, -apple-system, sans-serif;
    margin: 0;
    padding: 0;
    line-height: 1.6;
}

header {
    background: #f8f9fa;
    padding: 2rem 1rem;
    text-align: center;
}

main {
    padding: 2rem 1rem;
    max-width: 800px;
    margin: 0 auto;
}

.cta-section {
    background: #007cba;
    color: white;
    padding: 2rem 1rem;
    text-align: center;
}

.cta-section a {
    color: white;
    text-decoration: none;
    background: rgba(255,255,255,0.2);
    padding: 0.5rem 1rem;
    border-radius: 4px;
}
`, name, name, themeName)
}

// RenderHeader renders the shared header fragment.
func RenderHeader(project *models.Project) string {
	return fmt.Sprintf(`<?php
/**
 * Header template for SEO Builder theme
 * Project: %s
 */
?>
<!DOCTYPE html>
<html <?php language_attributes(); ?>>
<head>
    <meta charset="<?php bloginfo('charset'); ?>">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <?php wp_head(); ?>
</head>
<body <?php body_class(); ?>>
<?php wp_body_open(); ?>
`, sanitizeComment(project.Name))
}

// RenderFooter renders the shared footer fragment.
func RenderFooter() string {
	return `<?php wp_footer(); ?>
</body>
</html>
`
}

// RenderIndex renders the fallback index template WordPress requires.
func RenderIndex() string {
	return `<?php
/**
 * Main template file
 * Fallback template for SEO Builder theme
 */
get_header();
?>

<main>
    <?php if (have_posts()) : ?>
        <?php while (have_posts()) : the_post(); ?>
            <article>
                <h1><?php the_title(); ?></h1>
                <div><?php the_content(); ?></div>
            </article>
        <?php endwhile; ?>
    <?php else : ?>
        <p>No content found.</p>
    <?php endif; ?>
</main>

<?php get_footer(); ?>
`
}

// sanitizeComment keeps user text from breaking out of the PHP/CSS
// comment blocks it is embedded in.
func sanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "")
	s = strings.ReplaceAll(s, "?>", "")
	return strings.TrimSpace(s)
}
