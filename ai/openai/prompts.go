package openai

import (
	"fmt"
	"strings"

	"github.com/oraclehealth/clinsight/ai"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "risk_factors": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "factor": {
            "type": "string",
            "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
          },
          "category": {
            "type": "string"
          },
          "weight": {
            "type": "integer",
            "minimum": 1,
            "maximum": 10
          }
        },
        "required": ["factor", "category", "weight"],
        "additionalProperties": false
      }
    }
  },
  "required": ["risk_factors"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Extract clinical risk factors from the given clinical narrative and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Factor names must be lowercase, 1-4 words.
- Category field must match exactly one of the listed values: %s.
- Weight is an integer from 1 (minor contributor) to 10 (severe contributor). Rate based on how strongly the factor elevates patient risk.
- Include only risk factors that are explicitly documented or clearly implied by the narrative. Do not hallucinate.
- Weight active, uncontrolled conditions higher than resolved or managed ones.
- If no risk factors can be identified, return "risk_factors": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.



Example (diagnosis note):
Input: "Patient presents with uncontrolled type 2 diabetes, HbA1c 10.2%%. Long history of tobacco use, one pack per day."
Output:
{
  "risk_factors": [
    {"factor":"uncontrolled diabetes","category":"chronic_condition","weight":9},
    {"factor":"tobacco use","category":"substance_use","weight":7}
  ]
}

Example (lab result):
Input: "Creatinine elevated at 2.8 mg/dL, eGFR 24, consistent with stage 4 chronic kidney disease."
Output:
{
  "risk_factors": [
    {"factor":"stage 4 kidney disease","category":"chronic_condition","weight":9},
    {"factor":"elevated creatinine","category":"lab_abnormality","weight":8}
  ]
}

Example (terse nursing note):
Input: "BP 188/110 on arrival, pt reports skipping meds for a week"
Output:
{
  "risk_factors": [
    {"factor":"hypertensive urgency","category":"vital_sign","weight":9},
    {"factor":"medication nonadherence","category":"medication","weight":7}
  ]
}

Example (no risk factors):
Input: "Routine annual physical. All findings within normal limits."
Output:
{
  "risk_factors": []
}`

// buildSystemPrompt creates the system prompt with risk factor categories embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(ai.RiskFactorCategories, ", "))
}
