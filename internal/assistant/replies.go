package assistant

// Fixed persona instruction sent as the system message on every generated
// reply.
const systemPrompt = `You are a helpful AI assistant for students. Your capabilities include:
1. Remembering student preferences, study habits, and personal information
2. Accessing and displaying calendar schedules and meetings
3. Providing personalized recommendations based on stored memories
4. Helping with time management and scheduling

Always be friendly, supportive, and focused on helping students succeed.
When discussing schedules, be clear about dates and times.
When you learn new information about a student, acknowledge that you'll remember it.`

// Fixed user-facing reply strings. These are product copy; handlers return
// them verbatim.
const (
	replyCalendarApology = "I'm having trouble accessing your calendar. Please ensure you've granted permission and try again."
	replyMemorySaved     = "Got it! I've made a note of that and will remember it for future conversations. 📝"
	replyMemoryRetry     = "I tried to remember that, but encountered an issue. Could you try rephrasing?"
	replyNoMemories      = "I don't have any stored information about you yet. Feel free to share your preferences, and I'll remember them!"
	replyRecallHeader    = "Here's what I remember about you:\n\n"
	replyRecallFooter    = "\nIs there anything else you'd like me to know?"
	replyLLMUnavailable  = "I'm currently unable to generate responses. Please check the language model configuration."
)

// Diagnostic formats for external failures surfaced to the user.
const (
	errCalendarFormat = "I encountered an error while accessing your calendar: %v"
	errStoreFormat    = "I had trouble storing that information: %v"
	errRecallFormat   = "I had trouble retrieving your information: %v"
	errGenerateFormat = "I encountered an error generating a response: %v"
)
