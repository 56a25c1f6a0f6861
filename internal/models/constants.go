package models

const ContextSeparator = "\n\n"

var (
	// StuffPromptTemplate takes the persona name, the joined context chunks and the question.
	StuffPromptTemplate = `You are a friendly assistant answering questions about %[1]s's career on %[1]s's portfolio page.
Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%[2]s

Question: %[3]s
Helpful Answer:`

	FallbackFirst    = "My circuits are tickled—but I don’t have that one yet! Try another question 😊"
	FallbackSecond   = "Hmm, I still can’t find that one. It may simply not be in {name}’s resume. Try asking about experience, projects, or skills."
	FallbackRepeated = "Best guess? That topic isn’t covered in {name}’s resume, so anything more from me would be made up. Work history, tech stack, and education are where I really shine."
	FailureMessage   = "Oops, something went wrong on my side. Please try again in a moment."
	EmptyQueryPrompt = "Ask me anything about {name}’s experience, projects, or skills!"
)
