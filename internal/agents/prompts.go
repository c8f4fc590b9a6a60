package agents

import "interviewcore/internal/orchestrator"

// Prompt templates for each agent. Wording is tuned independently of the
// code; only the input names and the output contracts matter here.

var documentAnalysisPrompt = orchestrator.MustTemplateRenderer("document_analysis", `Analyze the match between the candidate and the role below.

Resume:
{{.resume_text}}

Role description:
{{.role_description_text}}

Job offering:
{{.job_offering_text}}

Respond with a JSON object with exactly these fields:
  "match_score": integer from 1 to 10,
  "match_summary": one-paragraph assessment,
  "focus_areas": list of 3 to 6 interview topics.

Provide your analysis:`)

var questionGenerationPrompt = orchestrator.MustTemplateRenderer("question_generation", `You are conducting a technical interview.

Focus areas: {{.focus_areas}}
Current difficulty (3-10): {{.difficulty_level}}
Questions already asked: {{.questions_asked}}

Conversation so far:
{{.chat_history}}

Ask the single next interview question. Return only the question text.`)

var answerEvaluationPrompt = orchestrator.MustTemplateRenderer("answer_evaluation", `Evaluate the candidate's answer.

Question:
{{.question}}

Answer:
{{.answer}}

Respond with a JSON object with exactly these fields:
  "score": integer from 1 to 10,
  "rationale": why the answer earned that score,
  "evidence": a quote or observation from the answer,
  "followup_hint": optional suggestion for a follow-up.

Provide your evaluation:`)

const (
	documentAnalysisSystem   = "You are an expert technical recruiter."
	questionGenerationSystem = "You are an expert technical interviewer."
	answerEvaluationSystem   = "You are an expert technical interviewer scoring answers."
)
