package damage_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/birdsim/internal/damage"
)

var _ = Describe("Damageable", func() {
	Describe("ApplyDamage", func() {
		It("destroys an obstacle whose durability drops below zero", func() {
			stone := damage.NewObstacle("Stone", 80)

			destroyed, counter := stone.ApplyDamage(95.0)

			Expect(destroyed).To(BeTrue())
			Expect(counter).To(Equal(-15))
			Expect(stone.Counter()).To(Equal(-15))
		})

		It("truncates fractional forces toward zero", func() {
			wood := damage.NewObstacle("Wood", 30)

			destroyed, counter := wood.ApplyDamage(12.99)

			Expect(destroyed).To(BeFalse())
			Expect(counter).To(Equal(18))
		})

		It("treats an exact zero counter as destroyed", func() {
			pig := damage.NewTarget("Green Pig", 50)

			destroyed, counter := pig.ApplyDamage(50.4)

			Expect(destroyed).To(BeTrue())
			Expect(counter).To(BeZero())
		})

		DescribeTable("ignores forces that would heal",
			func(force float64) {
				pig := damage.NewTarget("Big Pig", 100)
				_, counter := pig.ApplyDamage(force)
				Expect(counter).To(Equal(100))
			},
			Entry("negative", -40.0),
			Entry("NaN", math.NaN()),
			Entry("below one", 0.99),
		)

		It("clamps forces beyond the integer range", func() {
			wall := damage.NewObstacle("Steel", 10)

			destroyed, counter := wall.ApplyDamage(1e300)

			Expect(destroyed).To(BeTrue())
			Expect(counter).To(Equal(10 - math.MaxInt32))
		})

		It("keeps the counter monotonic across repeated hits", func() {
			pig := damage.NewTarget("Big Pig", 100)
			forces := []float64{10.7, 0, 33.2, 5.9, 80}

			expected := 100
			previous := pig.Counter()
			for _, f := range forces {
				_, counter := pig.ApplyDamage(f)
				expected -= int(math.Floor(f))
				Expect(counter).To(BeNumerically("<=", previous))
				previous = counter
			}
			Expect(pig.Counter()).To(Equal(expected))
		})

		It("serializes concurrent hits on one entity", func() {
			wall := damage.NewObstacle("Stone", 10000)

			var wg sync.WaitGroup
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					wall.ApplyDamage(7.5)
				}()
			}
			wg.Wait()

			Expect(wall.Counter()).To(Equal(10000 - 700))
		})
	})

	Describe("DisplayLabel", func() {
		It("prefixes obstacles with their material", func() {
			Expect(damage.NewObstacle("Wood", 30).DisplayLabel()).To(Equal("Obstacle (Wood)"))
		})

		It("shows targets by name", func() {
			Expect(damage.NewTarget("Green Pig", 50).DisplayLabel()).To(Equal("Green Pig"))
		})
	})
})

var _ = Describe("Attack modes", func() {
	DescribeTable("MultiplierFor",
		func(mode damage.Mode, expected float64) {
			f, err := damage.MultiplierFor(mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(expected))
		},
		Entry("normal", damage.ModeNormal, 1.0),
		Entry("accelerated", damage.ModeAccelerated, 1.3),
		Entry("explosive", damage.ModeExplosive, 1.5),
		Entry("unset defaults to normal", damage.Mode(""), 1.0),
	)

	It("rejects unknown modes", func() {
		_, err := damage.MultiplierFor("nuclear")
		Expect(err).To(MatchError(damage.ErrUnknownMode))

		_, err = damage.ParseMode("nuclear")
		Expect(err).To(MatchError(damage.ErrUnknownMode))
	})

	It("parses modes case-insensitively", func() {
		m, err := damage.ParseMode(" Explosive ")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(damage.ModeExplosive))

		m, err = damage.ParseMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(damage.ModeNormal))
	})

	It("lists modes in increasing strength", func() {
		previous := 0.0
		for _, m := range damage.Modes() {
			f, err := damage.MultiplierFor(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(BeNumerically(">", previous))
			previous = f
		}
	})
})

var _ = Describe("Resolve", func() {
	var roster *damage.Roster

	BeforeEach(func() {
		roster = damage.NewRoster(
			damage.NewObstacle("Wood", 30),
			damage.NewObstacle("Stone", 80),
			damage.NewTarget("Green Pig", 50),
			damage.NewTarget("Big Pig", 100),
		)
	})

	It("records before and after values with kind-specific status", func() {
		results := roster.Resolve(60.8)

		Expect(results).To(Equal([]damage.ImpactResult{
			{Target: "Obstacle (Wood)", Initial: 30, Remaining: -30, Status: damage.Destroyed},
			{Target: "Obstacle (Stone)", Initial: 80, Remaining: 20, Status: damage.Damaged},
			{Target: "Green Pig", Initial: 50, Remaining: -10, Status: damage.Eliminated},
			{Target: "Big Pig", Initial: 100, Remaining: 40, Status: damage.Injured},
		}))
	})

	It("accumulates damage across resolutions", func() {
		roster.Resolve(20)
		results := roster.Resolve(20)

		Expect(results[0].Initial).To(Equal(10))
		Expect(results[0].Remaining).To(Equal(-10))
		Expect(results[3].Remaining).To(Equal(60))
	})

	It("supports ad-hoc editing", func() {
		roster.Add(damage.NewTarget("King Pig", 150))
		Expect(roster.Len()).To(Equal(5))

		Expect(roster.Remove("Wood")).To(Equal(1))
		Expect(roster.List()[0].Label).To(Equal("Stone"))

		roster.Clear()
		Expect(roster.Resolve(100)).To(BeEmpty())
	})
})
