package cmd

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
	"github.com/zkmopro/anon-aadhaar-prover/types"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

var webApiCmd = &cobra.Command{
	Use:   "web-api",
	Short: "runs a web server for proof generation and verification",
	RunE:  runApi,
}

func healthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Health check passed",
	}

	c.JSON(http.StatusOK, response)
}

// ProveRequest carries either the flattened inputs or a prover input
// document in its json form.
type ProveRequest struct {
	ID       string             `json:"id"`
	Inputs   []string           `json:"inputs"`
	Document *types.ProverInput `json:"document"`
}

type VerifyRequest struct {
	ID    string        `json:"id"`
	Proof hexutil.Bytes `json:"proof"`
}

func requestID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func abort(c *gin.Context, id string, err error) {
	status := http.StatusInternalServerError
	if zkerr.Is(err, zkerr.KindEncoding) {
		status = http.StatusBadRequest
	}
	log.Warn().Str("id", id).Err(err).Msg("request failed")
	c.JSON(status, gin.H{
		"id":    id,
		"error": err.Error(),
		"code":  zkerr.KindOf(err).String(),
		"step":  zkerr.OpOf(err),
	})
}

func generateProof(o *prover.Orchestrator, srsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id := requestID(req.ID)

		inputs := req.Inputs
		if req.Document != nil {
			inputs = req.Document.Flatten()
		}
		b, err := o.Prove(srsPath, inputs)
		if err != nil {
			abort(c, id, err)
			return
		}
		doc, err := newProofDocument(b)
		if err != nil {
			abort(c, id, zkerr.Backend("decode proof", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":            id,
			"inputs":        doc.Inputs,
			"proof":         doc.Proof,
			"solidityProof": doc.Solidity,
		})
	}
}

func verifyProof(o *prover.Orchestrator, srsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id := requestID(req.ID)

		ok, err := o.Verify(srsPath, req.Proof)
		if err != nil {
			abort(c, id, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":    id,
			"valid": ok,
		})
	}
}

func newRouter(o *prover.Orchestrator, srsPath string) *gin.Engine {
	router := gin.Default()
	router.GET("/health", healthCheck)
	router.POST("/prove", generateProof(o, srsPath))
	router.POST("/verify", verifyProof(o, srsPath))
	return router
}

func runApi(cmd *cobra.Command, args []string) error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	//gin.SetMode(gin.ReleaseMode)
	log.Info().Msg("Listening on " + cfg.Listen)
	return newRouter(o, cfg.SRSPath).Run(cfg.Listen)
}

func init() {
	rootCmd.AddCommand(webApiCmd)
}
