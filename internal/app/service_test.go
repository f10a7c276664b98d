package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/careerpath/internal/app"
	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/internal/domain/model"
	"github.com/okian/careerpath/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const catalogCSV = "Career Title,Industry,Entry-Level Roles,Mid-Level Roles,Senior-Level Roles,Expected Salary (INR),Top Hiring Private Companies in India\n" +
	`Data Scientist,AI,Junior Data Analyst,Data Scientist,Chief Data Officer,6-15 LPA,"TCS, Infosys"` + "\n" +
	`Software Engineer,IT,Trainee Developer,Senior Developer,Architect,4-12 LPA,Wipro` + "\n" +
	`Cybersecurity Analyst,IT Security,SOC Analyst,Security Engineer,CISO,30+ LPA,HCL` + "\n" +
	`Chef,Hospitality,Line Cook,Sous Chef,Executive Chef,Not disclosed,Taj` + "\n"

// memOpener serves a fixed catalog body.
type memOpener struct {
	body string
	err  error
}

func (m memOpener) Open(context.Context, string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(strings.NewReader(m.body)), nil
}

// lifecycleEmbedder records Start/Stop calls around a hash embedder.
type lifecycleEmbedder struct {
	*embedding.HashEmbedder
	mu      sync.Mutex
	started int
	stopped int
}

func (l *lifecycleEmbedder) Start(context.Context) { l.mu.Lock(); l.started++; l.mu.Unlock() }
func (l *lifecycleEmbedder) Stop()                 { l.mu.Lock(); l.stopped++; l.mu.Unlock() }

// gatedOpener blocks Open until release is closed.
type gatedOpener struct {
	memOpener
	opened  chan struct{}
	release chan struct{}
}

func (g gatedOpener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	select {
	case <-g.opened:
	default:
		close(g.opened)
	}
	<-g.release
	return g.memOpener.Open(ctx, src)
}

func newStartedService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{service.WithOpener(memOpener{body: catalogCSV})}, opts...)
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func titles(rs []model.RankedResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()

		Convey("When it has not been started", func() {
			svc := service.New(service.WithOpener(memOpener{body: catalogCSV}))

			Convey("Then every catalog operation reports not ready", func() {
				So(svc.Ready(), ShouldBeFalse)
				_, err := svc.AllCareers(ctx)
				So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
				_, err = svc.CareerByTitle(ctx, "Chef")
				So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
				_, err = svc.Recommend(ctx, model.Query{Skills: []string{"Data"}})
				So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
				_, err = svc.SubmitAssessment(ctx, []string{"Solving cybersecurity challenges"})
				So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting with a valid catalog", func() {
			svc := newStartedService()
			defer svc.Stop()

			Convey("Then it becomes ready", func() {
				So(svc.Ready(), ShouldBeTrue)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["careers"], ShouldEqual, 4)
				So(stats["embeddingDim"], ShouldEqual, embedding.DefaultDimension)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})
		})

		Convey("When the source cannot be opened", func() {
			svc := service.New(service.WithOpener(memOpener{err: model.ErrDataLoad}))
			err := svc.Start(ctx)

			Convey("Then start fails and the service stays not ready", func() {
				So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
			})
		})

		Convey("When the catalog is malformed", func() {
			svc := service.New(service.WithOpener(memOpener{body: "Career Title,Industry\nChef,Hospitality\n"}))
			err := svc.Start(ctx)

			Convey("Then start fails with a data load error", func() {
				So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
			})
		})

		Convey("When a second start overlaps one still loading", func() {
			gate := gatedOpener{
				memOpener: memOpener{body: catalogCSV},
				opened:    make(chan struct{}),
				release:   make(chan struct{}),
			}
			svc := service.New(service.WithOpener(gate))
			defer svc.Stop()

			first := make(chan error, 1)
			go func() { first <- svc.Start(ctx) }()
			<-gate.opened

			second := make(chan error, 1)
			go func() { second <- svc.Start(ctx) }()

			Convey("Then it waits and returns only once the service is ready", func() {
				returnedEarly := false
				select {
				case <-second:
					returnedEarly = true
				case <-time.After(50 * time.Millisecond):
				}
				So(returnedEarly, ShouldBeFalse)
				So(svc.Ready(), ShouldBeFalse)

				close(gate.release)
				So(<-second, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
				So(<-first, ShouldBeNil)
			})
		})

		Convey("When an overlapping start gives up before loading finishes", func() {
			gate := gatedOpener{
				memOpener: memOpener{body: catalogCSV},
				opened:    make(chan struct{}),
				release:   make(chan struct{}),
			}
			svc := service.New(service.WithOpener(gate))
			defer svc.Stop()

			first := make(chan error, 1)
			go func() { first <- svc.Start(ctx) }()
			<-gate.opened

			short, cancel := context.WithCancel(ctx)
			cancel()
			err := svc.Start(short)
			close(gate.release)

			Convey("Then it reports not ready", func() {
				So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(<-first, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})
		})

		Convey("When an overlapping start follows a failing one", func() {
			gate := gatedOpener{
				memOpener: memOpener{err: model.ErrDataLoad},
				opened:    make(chan struct{}),
				release:   make(chan struct{}),
			}
			svc := service.New(service.WithOpener(gate))

			first := make(chan error, 1)
			go func() { first <- svc.Start(ctx) }()
			<-gate.opened

			second := make(chan error, 1)
			go func() { second <- svc.Start(ctx) }()
			time.Sleep(20 * time.Millisecond)
			close(gate.release)

			Convey("Then both see the load failure", func() {
				So(errors.Is(<-first, model.ErrDataLoad), ShouldBeTrue)
				So(errors.Is(<-second, model.ErrDataLoad), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
			})
		})

		Convey("When the embedder has its own lifecycle", func() {
			emb := &lifecycleEmbedder{HashEmbedder: embedding.NewHashEmbedder(64)}
			svc := newStartedService(service.WithEmbedder(emb))
			svc.Stop()
			svc.Stop()

			Convey("Then the service starts and stops it once", func() {
				So(emb.started, ShouldEqual, 1)
				So(emb.stopped, ShouldEqual, 1)
				So(svc.Ready(), ShouldBeFalse)
			})
		})
	})
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()

		Convey("When recommending by rule on an entry-level role", func() {
			rec, err := svc.Recommend(ctx, model.Query{Skills: []string{"Data Analyst"}, Mode: model.ModeRule})

			Convey("Then the matching career is returned without a score", func() {
				So(err, ShouldBeNil)
				So(rec.Mode, ShouldEqual, model.ModeRule)
				So(titles(rec.Results), ShouldResemble, []string{"Data Scientist"})
				So(rec.Results[0].Rank, ShouldEqual, 1)
				So(rec.Results[0].Score, ShouldBeNil)
				So(*rec.Results[0].AverageSalaryLPA, ShouldEqual, 10.5)
				So(rec.Message, ShouldBeEmpty)
			})
		})

		Convey("When recommending by rule with no match", func() {
			rec, err := svc.Recommend(ctx, model.Query{Interests: []string{"Finance"}, Mode: model.ModeRule})

			Convey("Then the result is empty with a message", func() {
				So(err, ShouldBeNil)
				So(rec.Results, ShouldBeEmpty)
				So(rec.Message, ShouldEqual, service.NoMatchMessage)
			})
		})

		Convey("When recommending by similarity", func() {
			rec, err := svc.Recommend(ctx, model.Query{
				Skills:    []string{"Junior Data Analyst"},
				Interests: []string{"AI"},
			})

			Convey("Then the default number of scored results is returned best first", func() {
				So(err, ShouldBeNil)
				So(rec.Mode, ShouldEqual, model.ModeAI)
				So(len(rec.Results), ShouldEqual, 3)
				So(rec.Results[0].Title, ShouldEqual, "Data Scientist")
				for i, r := range rec.Results {
					So(r.Rank, ShouldEqual, i+1)
					So(r.Score, ShouldNotBeNil)
					So(*r.Score, ShouldBeBetweenOrEqual, -1.0, 1.0)
					if i > 0 {
						So(*r.Score, ShouldBeLessThanOrEqualTo, *rec.Results[i-1].Score)
					}
				}
			})
		})

		Convey("When a query repeats a record's own text", func() {
			rec, err := svc.Recommend(ctx, model.Query{
				Skills: []string{"Chef", "Hospitality", "Line Cook"},
				TopN:   10,
			})

			Convey("Then that record ranks first with the whole catalog returned", func() {
				So(err, ShouldBeNil)
				So(len(rec.Results), ShouldEqual, 4)
				So(rec.Results[0].Title, ShouldEqual, "Chef")
				So(*rec.Results[0].Score, ShouldAlmostEqual, 1.0, 1e-6)
				So(rec.Results[0].AverageSalaryLPA, ShouldBeNil)
			})
		})

		Convey("When no skills or interests are given", func() {
			_, errAI := svc.Recommend(ctx, model.Query{})
			_, errRule := svc.Recommend(ctx, model.Query{Skills: []string{"  "}, Mode: model.ModeRule})

			Convey("Then both modes reject the query", func() {
				So(errors.Is(errAI, model.ErrInvalidQuery), ShouldBeTrue)
				So(errors.Is(errRule, model.ErrInvalidQuery), ShouldBeTrue)
			})
		})

		Convey("When top_n is negative", func() {
			_, err := svc.Recommend(ctx, model.Query{Skills: []string{"Data"}, TopN: -1})
			So(errors.Is(err, model.ErrInvalidQuery), ShouldBeTrue)
		})

		Convey("When the mode is unknown", func() {
			_, err := svc.Recommend(ctx, model.Query{Skills: []string{"Data"}, Mode: "magic"})
			So(errors.Is(err, model.ErrInvalidQuery), ShouldBeTrue)
		})

		Convey("When many requests run concurrently", func() {
			var wg sync.WaitGroup
			errs := make([]error, 16)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = svc.Recommend(ctx, model.Query{Skills: []string{"Developer"}})
				}(i)
			}
			wg.Wait()

			Convey("Then they all succeed", func() {
				for _, err := range errs {
					So(err, ShouldBeNil)
				}
			})
		})
	})

	Convey("Given a service with a custom default top_n", t, func() {
		svc := newStartedService(service.WithDefaultTopN(2))
		defer svc.Stop()

		rec, err := svc.Recommend(context.Background(), model.Query{Skills: []string{"Developer"}})
		So(err, ShouldBeNil)
		So(len(rec.Results), ShouldEqual, 2)
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()

		Convey("When listing careers", func() {
			all, err := svc.AllCareers(ctx)
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 4)
			So(all[0].Title, ShouldEqual, "Data Scientist")
		})

		Convey("When looking up a title in another case", func() {
			upper, errU := svc.CareerByTitle(ctx, "DATA SCIENTIST")
			lower, errL := svc.CareerByTitle(ctx, "data scientist")

			Convey("Then both return the same record", func() {
				So(errU, ShouldBeNil)
				So(errL, ShouldBeNil)
				So(upper, ShouldResemble, lower)
				So(upper.HiringCompanies, ShouldEqual, "TCS, Infosys")
			})
		})

		Convey("When looking up an unknown title", func() {
			_, err := svc.CareerByTitle(ctx, "Astronaut")
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Assessment(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()

		Convey("When fetching the questions", func() {
			qs := svc.AssessmentQuestions()
			So(len(qs), ShouldEqual, 3)
			So(len(qs[0].Options), ShouldEqual, 5)
		})

		Convey("When submitting a known answer with an unknown one", func() {
			rec, err := svc.SubmitAssessment(ctx, []string{
				"Solving cybersecurity challenges",
				"Something nobody offered",
			})

			Convey("Then three careers are recommended by similarity", func() {
				So(err, ShouldBeNil)
				So(rec.Mode, ShouldEqual, model.ModeAI)
				So(len(rec.Results), ShouldEqual, 3)
				So(rec.Results[0].Title, ShouldEqual, "Cybersecurity Analyst")
			})
		})

		Convey("When every answer is unknown", func() {
			_, err := svc.SubmitAssessment(ctx, []string{"nope"})
			So(errors.Is(err, model.ErrInvalidQuery), ShouldBeTrue)
		})
	})
}
