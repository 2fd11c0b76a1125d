package domain

// SkillCatalog is the closed set of skill labels the site can display.
// The toggle-set manager refuses labels outside this list; the stored rows
// only record which catalog entries are enabled.
var SkillCatalog = []string{
	"HTML", "CSS", "JS", "React", "Next JS", "Nuxt JS", "Node JS", "Vue",
	"Angular", "Docker", "Photoshop", "Illustrator", "Svelte", "GCP", "Azure",
	"Fastify", "Haxe", "Ionic", "Markdown", "Microsoft Office", "Picsart",
	"Sketch", "Unity", "WolframAlpha", "Adobe XD", "After Effects",
	"Bootstrap", "Bulma", "CapacitorJs", "Coffeescript", "MemSQL", "C", "C++",
	"C#", "Python", "Java", "Julia", "Matlab", "Swift", "Ruby", "Kotlin",
	"Go", "PHP", "Flutter", "Dart", "Typescript", "Git", "Figma", "Canva",
	"Ubuntu", "MongoDB", "Tailwind", "ViteJS", "VuetifyJS", "MySQL",
	"PostgreSQL", "AWS", "Firebase", "Blender", "Premiere Pro",
	"Adobe Audition", "Deno", "Django", "Gimp", "Graphql", "Lightroom",
	"MaterialUI", "Nginx", "Numpy", "OpenCV", "Pytorch", "Selenium",
	"Strapi", "Tensorflow", "Webex", "Wordpress",
}

// InSkillCatalog reports whether label is a known catalog entry.
func InSkillCatalog(label string) bool {
	for _, s := range SkillCatalog {
		if s == label {
			return true
		}
	}
	return false
}
