package service

import (
	"fmt"
	"strings"
)

// Prompt builders for each practice module. The templates ask the model for
// a bare JSON object; the pipeline still strips fences because models add
// them anyway. User text arrives here already sanitized and is placed inside
// quoted or fenced delimiters only.

func reviewerPrompt(code, review string) string {
	b := &strings.Builder{}
	b.WriteString("You are a Staff Software Engineer evaluating a junior developer's code review skills.\n")
	b.WriteString("The code they reviewed is:\n")
	writeCodeBlock(b, code)
	fmt.Fprintf(b, "Their review is: %q\n\n", review)
	b.WriteString("Evaluate their review based on these criteria, providing a score from 0-100 for each:\n")
	b.WriteString("1. Constructiveness: Is the feedback helpful and solution-oriented?\n")
	b.WriteString("2. Specificity: Does it point to specific parts of the code?\n")
	b.WriteString("3. Tone: Is the tone professional and collaborative?\n\n")
	b.WriteString("Your response MUST be a valid JSON object with the keys: \"constructiveness\" (number), \"specificity\" (number), \"tone\" (number), and \"feedback\" (string).\n")
	b.WriteString("Example: { \"constructiveness\": 80, \"specificity\": 90, \"tone\": 85, \"feedback\": \"Your review is excellent because...\" }")
	return b.String()
}

func authorPrompt(code string) string {
	b := &strings.Builder{}
	b.WriteString("You are a Senior Software Engineer reviewing code written by a developer.\n")
	b.WriteString("The code they wrote is:\n")
	writeCodeBlock(b, code)
	b.WriteString("Evaluate their code based on these criteria, providing a score from 0-100 for each:\n")
	b.WriteString("1. Correctness: Does the code work as expected? Are there bugs?\n")
	b.WriteString("2. Readability: Is the code clean and easy to understand?\n")
	b.WriteString("3. Best Practices: Does the code follow common best practices?\n\n")
	b.WriteString("Your response MUST be a valid JSON object with the keys: \"correctness\" (number), \"readability\" (number), \"bestPractices\" (number), and \"feedback\" (string).\n")
	b.WriteString("Example: { \"correctness\": 95, \"readability\": 75, \"bestPractices\": 80, \"feedback\": \"The code is functionally correct, which is great. For readability...\" }")
	return b.String()
}

func interviewPrompt(role, question, answer string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "You are a senior technical interviewer for a top tech company, evaluating a candidate for a %q position.\n", role)
	b.WriteString("Your task is to analyze the candidate's answer to a specific interview question and provide a structured evaluation.\n\n")
	fmt.Fprintf(b, "Interview Question:\n%q\n\n", question)
	fmt.Fprintf(b, "Candidate's Answer:\n%q\n\n", answer)
	b.WriteString("Evaluation Criteria:\n")
	b.WriteString("Evaluate the answer based on the following three criteria. For each, provide a score from 0 (poor) to 100 (excellent).\n")
	b.WriteString("1. Technical Accuracy: Is the answer technically correct and precise?\n")
	b.WriteString("2. Depth of Understanding: Does the answer demonstrate a deep understanding of the topic, including nuances and trade-offs, or is it superficial?\n")
	b.WriteString("3. Clarity of Expression: Is the answer well-structured, easy to understand, and communicated clearly?\n\n")
	b.WriteString("Output Format:\n")
	b.WriteString("Your response MUST be a valid JSON object. Do not add any text, explanation, or markdown formatting before or after the JSON object.\n")
	b.WriteString("The JSON object must have exactly these four keys: \"accuracy\" (number), \"depth\" (number), \"clarity\" (number), and \"feedback\" (string).\n")
	b.WriteString("The \"feedback\" string should be a concise, constructive evaluation of the answer, explaining the reasoning behind the scores.")
	return b.String()
}

func driverPrompt(task, code string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "You are a \"Navigator\" in a pair programming session. Your partner, the \"Driver\", has written code for the task: %q.\n", task)
	b.WriteString("Their Code:\n")
	writeCodeBlock(b, code)
	b.WriteString("Evaluate their code on these criteria (0-100):\n")
	b.WriteString("1. Correctness: Does the code work? Are there bugs?\n")
	b.WriteString("2. Efficiency: Is the code performant?\n")
	b.WriteString("3. Readability: Is the code clean and understandable?\n")
	b.WriteString("Your response MUST be a valid JSON object with keys: \"correctness\", \"efficiency\", \"readability\", and \"feedback\" (string for textual feedback).")
	return b.String()
}

func navigatorPrompt(instruction string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "You are a \"Driver\" in a pair programming session. Your \"Navigator\" gave you an instruction: %q.\n", instruction)
	b.WriteString("Your task is twofold:\n")
	b.WriteString("1. Write the code that implements the instruction.\n")
	b.WriteString("2. Evaluate the quality of the instruction itself on these criteria (0-100):\n")
	b.WriteString("   - Clarity: Was the instruction easy to understand?\n")
	b.WriteString("   - Effectiveness: Did it lead to good code?\n")
	b.WriteString("   - Precision: Was it specific enough?\n")
	b.WriteString("Your response MUST be a valid JSON object with keys: \"clarity\", \"effectiveness\", \"precision\", and \"generatedCode\" (string containing ONLY the generated code block).")
	return b.String()
}

func standupPrompt(yesterday, today, blockers string) string {
	b := &strings.Builder{}
	b.WriteString("You are an experienced Senior Software Engineer and a helpful team lead reviewing a daily stand-up update.\n")
	b.WriteString("Your goal is to provide a structured evaluation with scores and constructive feedback.\n\n")
	b.WriteString("Here is the team member's update:\n")
	fmt.Fprintf(b, "- Yesterday's Accomplishments: %q\n", yesterday)
	fmt.Fprintf(b, "- Today's Plan: %q\n", today)
	fmt.Fprintf(b, "- Current Blockers: %q\n\n", blockers)
	b.WriteString("Your Task:\n")
	b.WriteString("Evaluate the update based on three criteria and provide a score from 0 to 100 for each. Also, provide overall textual feedback.\n\n")
	b.WriteString("Evaluation Criteria:\n")
	b.WriteString("1. Clarity (0-100): How clear and easy to understand is the update?\n")
	b.WriteString("2. Conciseness (0-100): Is the update brief and to the point, without unnecessary details?\n")
	b.WriteString("3. Impact (0-100): Does the update effectively communicate the impact of the work done and the goals for today?\n\n")
	b.WriteString("Output Format:\n")
	b.WriteString("Your response MUST be a valid JSON object with the following keys: \"clarity\" (number), \"conciseness\" (number), \"impact\" (number), and \"feedback\" (string).\n")
	b.WriteString("Example: { \"clarity\": 85, \"conciseness\": 90, \"impact\": 75, \"feedback\": \"Great update! Your goals for today are very clear...\" }")
	return b.String()
}

func writingPrompt(writingType, content string) string {
	b := &strings.Builder{}
	b.WriteString("You are an expert technical writer and editor. Your task is to review a piece of writing from a developer and provide a structured evaluation with scores.\n\n")
	fmt.Fprintf(b, "The developer is practicing writing a piece of %q.\n", writingType)
	b.WriteString("Here is the content they wrote:\n")
	b.WriteString("\"\"\"\n")
	b.WriteString(content)
	b.WriteString("\n\"\"\"\n\n")
	b.WriteString("Evaluation Criteria:\n")
	b.WriteString("Evaluate the writing based on the following criteria, providing a score from 0 to 100 for each:\n")
	b.WriteString("1. Clarity: Is the message clear, concise, and easy to understand?\n")
	b.WriteString("2. Structure: Is the content well-organized with a logical flow?\n")
	b.WriteString("3. Tone: Is the tone appropriate for the selected writing type?\n")
	b.WriteString("4. Completeness: Does the writing achieve its goal and include all necessary information?\n\n")
	b.WriteString("Output Format:\n")
	b.WriteString("Your response MUST be a valid JSON object with the keys: \"clarity\" (number), \"structure\" (number), \"tone\" (number), \"completeness\" (number), and \"feedback\" (string).\n")
	b.WriteString("Example: { \"clarity\": 80, \"structure\": 85, \"tone\": 90, \"completeness\": 75, \"feedback\": \"This is a good start...\" }")
	return b.String()
}

func writeCodeBlock(b *strings.Builder, code string) {
	b.WriteString("```javascript\n")
	b.WriteString(code)
	b.WriteString("\n```\n")
}
