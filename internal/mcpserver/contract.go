package mcpserver

// GraphFormatContract describes the canonical graph document that LLM
// consumers should follow when importing or bulk-editing the graph.
const GraphFormatContract = `# Sims Explorer Graph Format Contract

The graph is a single JSON document with exactly two top-level keys.

## Structure

` + "```" + `json
{
  "nodes": [
    {
      "id": "antonia",
      "label": "Antonia",
      "image": "",
      "alive": true,
      "attributes": [
        { "kind": "age", "type": "number", "number": 29 },
        { "kind": "job", "type": "text", "text": "Doctor" },
        { "kind": "traits", "type": "tags", "tags": ["ambitious", "loyal"] },
        { "kind": "occult", "type": "select", "text": "Human" }
      ]
    }
  ],
  "edges": [
    { "id": "antonia-livia-friend", "source": "antonia", "target": "livia",
      "kind": "friend", "strength": 0.8 }
  ]
}
` + "```" + `

## Rules

1. **Both keys are mandatory.** A document missing ` + "`" + `nodes` + "`" + ` or ` + "`" + `edges` + "`" + `
   (or with either not a list) is rejected on import.
2. **Person ids** are lowercase slugs (letters, digits, hyphens). When a person is
   created through the ` + "`" + `add_person` + "`" + ` tool without an id, one is derived
   from the label.
3. **Edges are undirected.** ` + "`" + `source` + "`" + ` and ` + "`" + `target` + "`" + ` order does not
   matter; a pair can carry several edges as long as their kinds differ.
4. **Every edge endpoint must name an existing person.** Imports with dangling
   edges are rejected and the offending edge ids are reported.
5. **Strength** is a float in [0, 1]; out-of-range values are clamped, missing
   values default to 0.5.
6. **Kinds** come from the fixed catalog (use the ` + "`" + `list_kinds` + "`" + ` tool);
   examples: married, partner, romantic, crush, ex, parent, sibling, friend,
   bestfriend, enemy, rivalry, owner_pet.
7. **Attributes** follow the field templates: ` + "`" + `age` + "`" + ` (number),
   ` + "`" + `job` + "`" + ` (text), ` + "`" + `hobbies` + "`" + ` / ` + "`" + `traits` + "`" + ` (tags),
   ` + "`" + `occult` + "`" + ` (select, defaults to Human), ` + "`" + `notes` + "`" + ` (textarea),
   plus repeatable ` + "`" + `customText` + "`" + ` and ` + "`" + `customTags` + "`" + ` entries.
8. **Omitted fields backfill on load:** ` + "`" + `alive` + "`" + ` defaults to true,
   ` + "`" + `attributes` + "`" + ` to the empty list, a missing edge ` + "`" + `id` + "`" + ` is
   derived as ` + "`" + `source-target-kind` + "`" + `.
`
