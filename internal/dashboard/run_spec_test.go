package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"profiledash/internal/graphql"
	"profiledash/internal/profile"
)

var _ = ginkgo.Describe("Run", func() {
	var f *fixture

	ginkgo.BeforeEach(func() {
		f = newFixture()
	})

	ginkgo.It("fills every region and records the report", func() {
		report, err := f.run(DefaultSettings())
		gomega.Expect(err).To(gomega.Succeed())

		gomega.Expect(f.sink.Keys()).To(gomega.Equal(Regions))
		gomega.Expect(f.region(RegionHeader).Text).To(gomega.Equal("jdoe"))
		gomega.Expect(f.region(RegionCampus).Text).To(gomega.Equal("Bahrain"))
		gomega.Expect(f.region(RegionXP).Text).To(gomega.Equal("1.23 MB"))
		gomega.Expect(f.region(RegionProjects).Items).To(gomega.Equal([]string{"graphql", "social-network"}))

		audit := f.region(RegionAudit)
		gomega.Expect(audit.Text).To(gomega.Equal("Ratio: 2.0"))
		gomega.Expect(audit.Items).To(gomega.Equal([]string{"Done: 2.00 MB", "Received: 1.00 MB"}))
		gomega.Expect(audit.Markup).To(gomega.ContainSubstring("chart-progress"))

		skills := f.region(RegionSkills)
		gomega.Expect(skills.Items).To(gomega.Equal([]string{"prog: 80", "go: 70", "js: 50"}))
		gomega.Expect(skills.Markup).To(gomega.ContainSubstring("chart-radial"))

		tech := f.region(RegionTechSkills)
		gomega.Expect(tech.Markup).To(gomega.ContainSubstring("chart-bar"))
		gomega.Expect(tech.Series).To(gomega.HaveLen(len(profile.TechSkillTypes)))

		gomega.Expect(report.Failed()).To(gomega.BeEmpty())
		gomega.Expect(report.Results).To(gomega.HaveLen(6))
		gomega.Expect(report.XP).To(gomega.BeNumerically("==", 1234567))
		gomega.Expect(f.rec.Count()).To(gomega.Equal(1))
		gomega.Expect(f.term.Calls()).To(gomega.BeZero())
	})

	ginkgo.It("passes the user id to the XP query", func() {
		_, err := f.run(DefaultSettings())
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(f.q.Vars(profile.XPQuery)).To(gomega.HaveKeyWithValue("userId", 42))
	})

	ginkgo.It("refuses to load without a session", func() {
		_, err := f.dashboard("", DefaultSettings()).Run(context.Background(), f.sink)
		gomega.Expect(errors.Is(err, ErrUnauthenticated)).To(gomega.BeTrue())
		gomega.Expect(f.sink.Keys()).To(gomega.BeEmpty())
		gomega.Expect(f.q.Calls(profile.BasicInfoQuery)).To(gomega.BeZero())
	})

	ginkgo.When("the identity fetch fails", func() {
		ginkgo.It("shows the error in every region", func() {
			f.q.Fail(profile.BasicInfoQuery, graphql.NewTransportError("query BasicInfo", 502, "bad gateway"))

			_, err := f.run(DefaultSettings())
			gomega.Expect(graphql.IsTransport(err)).To(gomega.BeTrue())
			for _, r := range Regions {
				c := f.region(r)
				gomega.Expect(c.Failed).To(gomega.BeTrue(), string(r))
				gomega.Expect(c.Text).To(gomega.HavePrefix("Error loading data: "))
			}
			gomega.Expect(f.q.Calls(profile.SkillsQuery)).To(gomega.BeZero())
		})

		ginkgo.It("logs out when the token is rejected", func() {
			f.q.Fail(profile.BasicInfoQuery, graphql.NewQueryError("query BasicInfo", "Could not verify JWT: JWTExpired"))

			_, err := f.run(DefaultSettings())
			gomega.Expect(errors.Is(err, ErrUnauthenticated)).To(gomega.BeTrue())
			gomega.Expect(f.term.Calls()).To(gomega.Equal(1))
			gomega.Expect(f.sink.Keys()).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("policy is fail-fast", func() {
		ginkgo.It("lets slower tasks finish and returns the first failure", func() {
			release := make(chan struct{})
			f.q.Fail(profile.SkillsQuery, graphql.NewTransportError("query Skills", 500, "boom"))
			f.q.Block(profile.LastProjectsQuery, release)
			time.AfterFunc(20*time.Millisecond, func() { close(release) })

			report, err := f.run(DefaultSettings())
			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("skills: ")))
			gomega.Expect(graphql.IsTransport(err)).To(gomega.BeTrue())

			gomega.Expect(f.region(RegionSkills).Text).To(gomega.Equal("Error loading data: fetch skills: query Skills: HTTP 500: boom"))
			projects, projectsSet := f.sink.Get(RegionProjects)
			gomega.Expect(projectsSet).To(gomega.BeTrue())
			gomega.Expect(projects.Failed).To(gomega.BeFalse())
			gomega.Expect(projects.Items).To(gomega.Equal([]string{"graphql", "social-network"}))
			gomega.Expect(f.sink.Keys()).To(gomega.Equal(Regions))
			gomega.Expect(report.Failed()).To(gomega.HaveLen(1))
			gomega.Expect(f.rec.Count()).To(gomega.BeZero())
		})

		ginkgo.It("prefers ending the session over a data failure", func() {
			f.q.Fail(profile.SkillsQuery, graphql.NewTransportError("query Skills", 500, "boom"))
			f.q.Fail(profile.AuditRatioQuery, graphql.NewTransportError("query AuditRatio", 401, "unauthorized"))

			_, err := f.run(DefaultSettings())
			gomega.Expect(errors.Is(err, ErrUnauthenticated)).To(gomega.BeTrue())
			gomega.Expect(f.term.Calls()).To(gomega.Equal(1))
		})
	})

	ginkgo.When("policy is best-effort", func() {
		ginkgo.It("runs every task and joins the failures", func() {
			f.q.Fail(profile.SkillsQuery, graphql.NewQueryError("query Skills", "field not found"))
			f.q.Fail(profile.XPQuery, graphql.NewTransportError("query XP", 503, "unavailable"))
			settings := DefaultSettings()
			settings.Policy = BestEffort

			report, err := f.run(settings)
			gomega.Expect(graphql.IsQuery(err)).To(gomega.BeTrue())
			gomega.Expect(graphql.IsTransport(err)).To(gomega.BeTrue())

			gomega.Expect(report.Failed()).To(gomega.HaveLen(2))
			gomega.Expect(f.region(RegionSkills).Text).To(gomega.Equal("Error loading data: fetch skills: field not found"))
			gomega.Expect(f.region(RegionXP).Failed).To(gomega.BeTrue())
			gomega.Expect(f.region(RegionProjects).Items).To(gomega.HaveLen(2))
			gomega.Expect(f.region(RegionTechSkills).Failed).To(gomega.BeFalse())
		})
	})

	ginkgo.It("logs out when a task's token is rejected", func() {
		f.q.Fail(profile.AuditRatioQuery, graphql.NewTransportError("query AuditRatio", 401, "unauthorized"))

		_, err := f.run(DefaultSettings())
		gomega.Expect(errors.Is(err, ErrUnauthenticated)).To(gomega.BeTrue())
		gomega.Expect(f.term.Calls()).To(gomega.Equal(1))
		gomega.Expect(f.region(RegionAudit).Failed).To(gomega.BeFalse())
	})
})
