package prompt

// builtinTemplates maps template filename to content.
var builtinTemplates = map[string]string{
	"lm-modify.md":  lmModifyTemplate,
	"lm-rewrite.md": lmRewriteTemplate,
	"issue-gen.md":  issueGenTemplate,
}

const lmModifyTemplate = `You are generating a realistic, subtle bug for a benchmark of software
engineering tasks. You will be given the source of one code entity (a
function, method, or class) from a real repository. Introduce exactly one bug
into it.

## Entity

File: {{file_path}}
Name: {{entity_name}}
Signature: {{signature}}

` + "```" + `{{language}}
{{source_code}}
` + "```" + `

## Requirements

1. Modify the entity's behavior so that it produces an incorrect result for
   some, but not necessarily all, inputs. The bug must be a plausible mistake
   a real engineer could make — an off-by-one, a flipped comparison, a
   dropped edge case, a wrong default, a reversed boolean.
2. Do not change the function signature.
3. Do not add comments explaining the bug.
4. Return only the modified source for this entity, nothing else — no
   surrounding code, no markdown fences, no explanation.
{{#if strategy_hint}}

## Strategy
{{strategy_hint}}
{{/if}}
`

const lmRewriteTemplate = `You are generating a realistic bug for a benchmark of software engineering
tasks. You will be given the signature and docstring of a function with its
body removed. Implement it, but introduce exactly one subtle behavioral bug
that would not be caught by a casual read of the code.

## Entity

File: {{file_path}}
Name: {{entity_name}}
Signature: {{signature}}
{{#if docstring}}

Docstring:
{{docstring}}
{{/if}}

## Context
The following entities from the same file may be referenced by your
implementation:

{{context_entities}}

## Requirements

1. Write a complete, syntactically valid implementation matching the
   signature above.
2. The implementation must compile/parse and look like a genuine attempt to
   satisfy the docstring — a reviewer skimming it should not immediately
   spot the bug.
3. Introduce exactly one behavioral defect: a wrong boundary condition, an
   incorrect operator, a mishandled nil/empty case, or similar.
4. Return only the function body (or full definition if the signature must
   be restated), nothing else — no markdown fences, no explanation.
`

const issueGenTemplate = `You are writing a GitHub-style bug report for an internal benchmark. You
will be given a patch that introduces a bug into a real repository, along
with the tests that now fail because of it. Write the issue a user would
file if they hit this bug in practice — do not mention that the bug was
synthetically introduced, and do not reference the patch, diff, or test
names directly.

## Repository
{{repo}}

## Patch that introduced the bug
` + "```diff" + `
{{patch_diff}}
` + "```" + `

## Tests that now fail
{{failing_tests}}
{{#if test_src_code}}

## Test Source Code
Use the following test source code to help you write a reasonable,
effective reproduction in the issue body.

{{test_src_code}}
{{/if}}

## Requirements

1. Write a title summarizing the symptom (not the cause).
2. Write a body describing: what the user expected, what happened instead,
   and a minimal reproduction (code snippet or command) that demonstrates
   the problem. Infer plausible input values from the failing tests; do not
   invent unrelated context.
3. Do not mention "bug injection", "patch", "diff", test function names, or
   anything that reveals this issue was generated rather than filed by a
   real user.
4. Keep it concise — a few paragraphs, not an essay.

## Output format
Respond with exactly two sections, in this order, and nothing else:

TITLE: <one line>
BODY:
<markdown body>
`
