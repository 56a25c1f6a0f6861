package classifier

// DefaultCategories is the built-in topic table, highest priority first.
func DefaultCategories() []Category {
	return []Category{
		{Name: "fun", Rules: []Rule{
			{Keywords: []string{"girlfriend", "relationship", "single", "wife", "crush"},
				Response: "Haha, that’s classified! {name} is more in love with data pipelines than dating apps."},
			{Keywords: []string{"favorite food"},
				Response: "He runs on JSON, chai, and weekend biryani—strictly in that order."},
			{Keywords: []string{"age"},
				Response: "Age is just metadata—especially if there’s no timestamp 😉."},
			{Keywords: []string{"hobbies", "free time", "weekend"},
				Response: "Debugging tricky pipelines, reading AI papers, and sharing memes with fellow engineers."},
			{Keywords: []string{"fruit"},
				Response: "I’d be a pineapple—tough exterior, sweet insights inside."},
			{Keywords: []string{"island"},
				Response: "I’d build a coconut-powered server farm and live off solar CPU cycles."},
			{Keywords: []string{"emoji"},
				Response: "🤖—because I’m building AI side-kicks for people."},
		}},
		{Name: "recruiter", Rules: []Rule{
			{Keywords: []string{"sponsorship", "visa", "work authorization"},
				Response: "{name} is on STEM OPT, authorized to work in the U.S., married and awaiting H4. Future sponsorship can be discussed based on timelines."},
			{Keywords: []string{"notice period"},
				Response: "About a 2-week notice—flexible for the right opportunity."},
			{Keywords: []string{"salary expectation", "current salary", "expected salary"},
				Response: "I’m open and flexible—happy to align on compensation based on role and impact."},
			{Keywords: []string{"relocation", "open to relocation"},
				Response: "I’m open to remote, hybrid, or relocation—whatever works best for the team."},
			{Keywords: []string{"available to start", "start date", "when can you start"},
				Response: "{name} can start roughly two weeks after an offer, sooner if the timing lines up."},
			{Keywords: []string{"remote", "hybrid", "onsite", "on-site"},
				Response: "Remote, hybrid, or onsite all work. {name} cares more about the team and the problems than the commute."},
		}},
		// The categories below answer questions the resume itself cannot. They
		// state no facts about {name}; anything factual falls through to retrieval.
		{Name: "company", Rules: []Rule{
			{Keywords: []string{"why did you leave", "why are you leaving", "looking for a change"},
				Response: "That one is best asked in person. {name} is happy to talk about what comes next; in the meantime ask about any role on the resume."},
			{Keywords: []string{"references", "reference check"},
				Response: "References are shared directly by {name} later in the process, not through this bot."},
		}},
		{Name: "tech", Rules: []Rule{
			{Keywords: []string{"favorite editor", "favourite editor", "dark mode"},
				Response: "Dark mode, always. Ask about a specific tool and I’ll check the resume for it."},
			{Keywords: []string{"tabs or spaces", "vim or emacs"},
				Response: "Strictly whatever the team’s linter says."},
		}},
		{Name: "education", Rules: []Rule{
			{Keywords: []string{"gpa", "grades"},
				Response: "Grades aren’t something I keep on file. Ask where {name} studied and I’ll look it up in the resume."},
			{Keywords: []string{"transcript"},
				Response: "Transcripts can be shared by {name} directly if the role needs them."},
		}},
		{Name: "projects", Rules: []Rule{
			{Keywords: []string{"github", "portfolio link"},
				Response: "Project links live on the resume. Ask about a project by name and I’ll pull up the details."},
			{Keywords: []string{"how was this bot built", "how does this chatbot work", "how do you work"},
				Response: "I match common questions against a few canned answers and look everything else up in {name}’s resume before writing a reply."},
		}},
		{Name: "volunteer", Rules: []Rule{
			{Keywords: []string{"pro bono", "give back"},
				Response: "Ask about community or volunteer work by name and I’ll check what the resume lists."},
		}},
		{Name: "behavioral", Rules: []Rule{
			{Keywords: []string{"about yourself", "introduce yourself", "who are you"},
				Response: "I’m {name}’s resume bot. Ask about experience, projects, or skills and I’ll answer from the resume."},
			{Keywords: []string{"strength", "weakness"},
				Response: "That’s a great one for an interview with {name}. Meanwhile, ask about a specific project to see the work itself."},
			{Keywords: []string{"why should we hire", "why hire", "good fit"},
				Response: "Compare the resume with the role: ask me about any skill the job needs and I’ll tell you what’s there."},
			{Keywords: []string{"five years", "5 years", "career goal", "future plans"},
				Response: "Career plans are best heard from {name} directly, so save that one for the interview."},
			{Keywords: []string{"hello", "good morning", "good evening"},
				Response: "Hi there! Ask me anything about {name}’s experience, skills, or projects."},
		}},
	}
}
