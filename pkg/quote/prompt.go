package quote

// OutputSchema is the reply shape the model is asked to produce
const OutputSchema = `{
  "price_total_usd": number,
  "overall_reasoning": string,
  "bodies": [
    {
      "name": string,
      "dimensions_mm": [number, number, number],
      "volume_mm3": number,
      "operations": [string],
      "machine_time_min": number,
      "price_usd": number,
      "reasoning": string
    }
  ]
}`

// EstimatorPrompt is the default task description
const EstimatorPrompt = "You are an expert CAM estimator. Use the provided material, exact geometry metadata, and 8 annotated views. " +
	"Detect the number of distinct bodies. For each body, describe shape features (e.g., plates, brackets, bosses, thin walls), " +
	"list likely manufacturing operations (e.g., laser cut, waterjet, turning, 3-axis milling, bending, drilling, tapping), " +
	"outline a plausible tool path strategy, estimate machine time in minutes, and assign a per-body price. " +
	"Then compute a deterministic total price. Return JSON exactly matching OUTPUT_SCHEMA with numeric fields as fixed numbers (no ranges)."

const instructions = "Use fixed numeric values (no ranges). " +
	"Provide per-body breakdown (name, operations, machine path strategy, machine_time_min, price). " +
	"Discuss shapes/feature types you observe in the images."
