package content

import "github.com/leapstack-labs/atlas/pkg/core"

// Personas the site is written for.
const (
	PersonaFounder     = "founder"
	PersonaEngLead     = "engineering-lead"
	PersonaHiringPanel = "hiring-manager"
)

// StaticCatalog returns the content fragments published on the site. The
// returned slice is freshly allocated.
func StaticCatalog() []core.ContentUnit {
	return []core.ContentUnit{
		{
			ID:      "home-hero",
			Source:  "components/hero",
			Persona: PersonaFounder,
			Intent:  core.IntentNavigational,
			Title:   "Platform engineering for regulated products",
			H1:      "Ship audited software without slowing down",
			Body: "I help small product teams in regulated markets design delivery " +
				"pipelines that produce their own evidence. Every build is signed, every " +
				"decision is linked to a record, and every release can be explained to an " +
				"auditor without a week of archaeology.",
		},
		{
			ID:      "about",
			Source:  "app/about",
			Persona: PersonaHiringPanel,
			Intent:  core.IntentNavigational,
			Title:   "About",
			H1:      "About me",
			H2:      []string{"Background", "How I work", "Outside work"},
			Body: "I have spent twelve years building backend systems for payments, " +
				"healthcare and public sector clients. Most of that time went into the " +
				"unglamorous parts: deployment pipelines, access control, audit trails and " +
				"the documentation that lets a new engineer understand why a system looks " +
				"the way it does. I started as a support engineer, which taught me to read " +
				"logs before reading code. Later I led a platform team of six that moved a " +
				"monolith onto a container platform while keeping a clean compliance record " +
				"through two external audits. I work in short, written iterations. Each " +
				"engagement starts with a one page brief, ends with a handover document, " +
				"and in between there is a weekly note describing what changed and what " +
				"I learned. I prefer boring technology, explicit contracts between teams, " +
				"and tests that fail loudly. Outside work I coach a youth running club and " +
				"maintain a few small open source tools for working with governance data.",
		},
		{
			ID:      "services-platform",
			Source:  "app/services/platform",
			Persona: PersonaEngLead,
			Intent:  core.IntentCommercial,
			Title:   "Platform engineering engagements",
			H1:      "Platform engineering",
			H2:      []string{"What you get", "How engagements work", "Typical timeline"},
			Body: "A platform engagement gives your team a delivery pipeline that " +
				"builds, tests, signs and deploys every change the same way. We start by " +
				"mapping the current path from commit to production, including the manual " +
				"steps nobody has written down. From there we agree on a target pipeline, " +
				"automate it in small increments, and retire the manual steps one at a " +
				"time. You get infrastructure as code in your own repositories, a written " +
				"runbook for each environment, and a governance workflow that checks the " +
				"enforcement registry on every pull request. Engagements run in two week " +
				"cycles with a demo at the end of each cycle. Most teams reach a fully " +
				"automated pipeline within three cycles, and the remaining time goes into " +
				"hardening, observability and knowledge transfer so the team owns the " +
				"result from day one. I pair with your engineers on every change so that " +
				"nothing depends on me after the engagement closes.",
		},
		{
			ID:      "services-governance",
			Source:  "app/services/governance",
			Persona: PersonaFounder,
			Intent:  core.IntentCommercial,
			Title:   "Governance automation engagements",
			H1:      "Governance automation",
			H2:      []string{"What you get", "How engagements work"},
			Body: "Governance automation turns the policies in your compliance binder " +
				"into checks that run on every change. We inventory the controls you have " +
				"promised customers and regulators, write each one down as an entry in an " +
				"enforcement registry, and link it to the code and CI gates that enforce " +
				"it. Controls without enforcement are visible from the first week instead " +
				"of the week before the audit.",
		},
		{
			ID:      "services-advisory",
			Source:  "app/services/advisory",
			Persona: PersonaFounder,
			Intent:  core.IntentCommercial,
			Title:   "Technical advisory",
			H1:      "Technical advisory",
			Body: "A monthly advisory retainer for founders who need a second opinion " +
				"on architecture, hiring and vendor choices. We meet every other week, " +
				"and between calls you can send written questions that get a written " +
				"answer within two working days. Typical topics include build versus buy " +
				"decisions, the first platform hire, cloud cost reviews, security " +
				"questionnaires from enterprise customers, and preparing for a first SOC " +
				"2 audit. The retainer is capped at four hours a month so that it stays " +
				"affordable for early stage companies.",
		},
		{
			ID:      "case-study-payments",
			Source:  "app/work/payments",
			Persona: PersonaEngLead,
			Intent:  core.IntentInformational,
			Title:   "Case study: payments platform",
			H1:      "Case study",
			H2:      []string{"The problem", "The approach", "The outcome"},
			Body: "A payments startup needed to pass a PCI assessment while shipping " +
				"daily. Their pipeline was a set of shell scripts on a shared build " +
				"server. We replaced it with a signed, reproducible pipeline, moved " +
				"secrets into a managed vault, and added evidence export so the " +
				"assessor could review every production change from a single report. " +
				"The assessment closed with no findings related to change management, " +
				"and deployment frequency went from weekly to several times a day.",
		},
		{
			ID:      "case-study-health",
			Source:  "app/work/health",
			Persona: PersonaEngLead,
			Intent:  core.IntentInformational,
			Title:   "Case study: health records",
			H1:      "Case study",
			H2:      []string{"The problem", "The approach", "The outcome"},
			Body: "A health records provider had an enforcement registry that nobody " +
				"trusted because half of its entries pointed at deleted code. We wired " +
				"the registry into CI so that every entry is checked against the " +
				"repository tree on each pull request, and added a dashboard that shows " +
				"coverage per control plane. Within a quarter the registry matched the " +
				"code and the team used it to answer customer security reviews directly.",
		},
		{
			ID:      "writing-index",
			Source:  "app/writing",
			Persona: PersonaEngLead,
			Intent:  core.IntentInformational,
			Title:   "Writing",
			H1:      "Writing",
			H2:      []string{"Recent notes"},
			Body: "Notes on platform engineering, governance automation and the " +
				"practical side of compliance for small teams. New notes appear roughly " +
				"once a month.",
		},
		{
			ID:      "contact",
			Source:  "app/contact",
			Persona: PersonaFounder,
			Intent:  core.IntentTransactional,
			Title:   "Contact",
			H1:      "Start a conversation",
			Body: "Tell me about your team and the problem you are working on. I reply " +
				"to every message within two working days.",
		},
		{
			ID:      "hiring-cv",
			Source:  "app/cv",
			Persona: PersonaHiringPanel,
			Intent:  core.IntentTransactional,
			Title:   "Curriculum vitae",
			H1:      "Curriculum vitae",
			Body: "Download a one page summary of roles, clients and certifications, " +
				"or request the full version with references.",
		},
	}
}
