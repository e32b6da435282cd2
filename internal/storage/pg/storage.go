package pg

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rds/rdsutils"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/urbano-mdr/urbano/internal/config"
	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/storage"
)

type Storage struct {
	mu    sync.RWMutex
	pool  *pgxpool.Pool
	conf  *config.Config
	table string
}

// connString returns the DSN to dial. With an RDS proxy configured the
// password is a short lived IAM token.
func connString(conf *config.Config) (string, error) {
	if conf.RDSProxyEndpoint == "" {
		return conf.DatabaseConnString(), nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(conf.AWSRegion),
	})
	if err != nil {
		return "", err
	}
	token, err := rdsutils.BuildAuthToken(conf.RDSProxyEndpoint, conf.AWSRegion, conf.RDSProxyUser, sess.Config.Credentials)
	if err != nil {
		return "", err
	}
	psqlURL, err := url.Parse("postgres://")
	if err != nil {
		return "", err
	}
	psqlURL.Host = conf.RDSProxyEndpoint
	psqlURL.User = url.UserPassword(conf.RDSProxyUser, token)
	psqlURL.Path = conf.RDSDBName
	q := psqlURL.Query()
	q.Add("sslmode", "require")
	psqlURL.RawQuery = q.Encode()
	return psqlURL.String(), nil
}

func poolConfig(conf *config.Config, dsn string) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if conf.ClientEncoding != "" {
		pc.ConnConfig.RuntimeParams["client_encoding"] = conf.ClientEncoding
	}
	// an unreachable database fails /readyz instead of the process
	pc.LazyConnect = true
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		conn.ConnInfo().RegisterDataType(pgtype.DataType{
			Value: &shopspring.Numeric{},
			Name:  "numeric",
			OID:   pgtype.NumericOID,
		})
		return nil
	}
	return pc, nil
}

func connect(ctx context.Context, conf *config.Config) (*pgxpool.Pool, error) {
	ats := time.Now()
	dsn, err := connString(conf)
	if err != nil {
		logging.Error(ctx, err, logging.Data{"version": conf.Version}, "failed to build connection string")
		return nil, err
	}
	pc, err := poolConfig(conf, dsn)
	if err != nil {
		logging.Error(ctx, err, logging.Data{"version": conf.Version}, "failed to parse connection string")
		return nil, err
	}
	cts := time.Now()
	pool, err := pgxpool.ConnectConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, logging.Data{
		"host":            pc.ConnConfig.Host,
		"database":        pc.ConnConfig.Database,
		"client_encoding": conf.ClientEncoding,
		"connection_time": time.Since(cts).String(),
		"auth_time":       time.Since(ats).String(),
	}, "connection stats")
	return pool, nil
}

// New builds the pool. Connections are opened lazily, so an unreachable
// server only surfaces on the first query or ping.
func New(ctx context.Context, conf *config.Config) (*Storage, error) {
	pool, err := connect(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Storage{
		conf:  conf,
		pool:  pool,
		table: tableName(conf.DBSchema, conf.TableName),
	}, nil
}

func (s *Storage) db() *pgxpool.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

func (s *Storage) reconnect(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db().Ping(pctx); err == nil {
		return nil
	}
	logging.Info(ctx, nil, "reconnecting")
	pool, err := connect(ctx, s.conf)
	if err != nil {
		return err
	}
	s.mu.Lock()
	old := s.pool
	s.pool = pool
	s.mu.Unlock()
	old.Close()
	return nil
}

// retry runs fn until it succeeds, fails for good or the backoff gives up.
// Only dropped connections are retried, after a reconnect.
func (s *Storage) retry(ctx context.Context, op string, fn func(db *pgxpool.Pool) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	ticker := backoff.NewTicker(backoff.WithContext(bo, ctx))
	var err error
	for range ticker.C {
		if err = fn(s.db()); err != nil {
			logging.Error(ctx, err, logging.Data{"op": op}, "query error")
			switch {
			case pgxscan.NotFound(err):
				ticker.Stop()
				return storage.ErrNotFound
			case errors.Is(err, io.ErrUnexpectedEOF):
				if err := s.reconnect(ctx); err != nil {
					logging.Error(ctx, err, nil, "failed to reconnect")
				}
			default:
				ticker.Stop()
				return storage.ErrStorage
			}
		} else {
			ticker.Stop()
		}
	}
	if err != nil {
		return storage.ErrStorage
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db().Ping(ctx); err != nil {
		return storage.ErrStorage
	}
	return nil
}

func (s *Storage) Close() {
	s.db().Close()
}
