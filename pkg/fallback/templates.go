package fallback

type sectionTemplate struct {
	heading    string
	paragraphs []string
	bullets    []string
}

// Placeholders: {keyword}, {Keyword}, {industry}, {audience}.

var titleTemplates = []string{
	"{Keyword}: A Practical Guide",
	"The Complete Guide to {Keyword}",
	"{Keyword} Explained for {Audience}",
	"Getting Started with {Keyword}",
}

var introTemplates = []string{
	"{Keyword} has become an important topic for {audience} in {industry}. " +
		"Understanding how it works, and where it fits into everyday decisions, makes it easier to get real value from it.",
	"This guide walks through the essentials of {keyword}: what it is, why it matters " +
		"and how {audience} can put it to work without wasting time or budget.",
}

var sectionTemplates = []sectionTemplate{
	{
		heading: "What {Keyword} Means",
		paragraphs: []string{
			"At its core, {keyword} is about making deliberate choices instead of relying on habit. " +
				"For {audience}, that means knowing the basic terms and the outcomes that matter most.",
		},
	},
	{
		heading: "Why {Keyword} Matters in {Industry}",
		paragraphs: []string{
			"Organizations in {industry} that take {keyword} seriously tend to see clearer priorities " +
				"and fewer costly surprises. The benefits compound as teams build experience.",
		},
		bullets: []string{
			"Better decisions based on reliable information",
			"Lower costs through fewer mistakes",
			"A clearer path from planning to results",
		},
	},
	{
		heading: "Getting Started Step by Step",
		paragraphs: []string{
			"Start small. Pick one area where {keyword} can make a visible difference, " +
				"set a simple goal and review progress after a few weeks.",
		},
		bullets: []string{
			"Define what success looks like",
			"Gather the tools and information you need",
			"Run a short trial and measure the outcome",
			"Adjust and expand what works",
		},
	},
	{
		heading: "Common Mistakes to Avoid",
		paragraphs: []string{
			"The most frequent mistake with {keyword} is trying to do everything at once. " +
				"Another is skipping measurement, which makes it impossible to tell what is working.",
		},
	},
	{
		heading: "Best Practices from Experienced Teams",
		paragraphs: []string{
			"Teams that succeed with {keyword} document their process, share lessons openly " +
				"and revisit their approach as conditions in {industry} change.",
		},
	},
	{
		heading: "Measuring Results",
		paragraphs: []string{
			"Choose a few indicators that reflect real progress. " +
				"Track them consistently so {audience} can see the effect of {keyword} over time.",
		},
	},
}

var linkSectionHeading = "Where to Learn More"

var linkSectionLeads = []string{
	"Good resources shorten the learning curve for {keyword} considerably.",
}

var fillerTemplates = []string{
	"Consistency matters more than intensity. Small, regular improvements to how you approach {keyword} " +
		"add up to meaningful change over a season.",
	"It helps to write down what you expect before you begin. Comparing expectations with results " +
		"is one of the fastest ways for {audience} to learn.",
	"Budget and time are always limited. Focus first on the parts of {keyword} that are easiest " +
		"to measure and most closely tied to your goals.",
	"Talk to peers in {industry}. Many of the challenges you will face with {keyword} have been " +
		"solved before, and a short conversation can save weeks of trial and error.",
	"Keep the process simple enough that anyone on the team can follow it. " +
		"Complexity is often the reason good intentions around {keyword} fade.",
	"Review your approach every few months. What worked at the start may need adjusting " +
		"as your experience with {keyword} grows.",
	"Clear communication keeps everyone aligned. Share goals, progress and setbacks " +
		"so that {audience} understand where things stand.",
	"Finally, remember that {keyword} is a means to an end. Keep the underlying goal in view " +
		"and let it guide which details deserve attention.",
}

var conclusionTemplates = []string{
	"{Keyword} rewards patience and a steady, practical approach. " +
		"Start with one clear goal, measure what happens and build from there.",
	"Ready to take the next step? Pick one idea from this guide and put it into practice this week.",
}
