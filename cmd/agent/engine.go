package agent

import "github.com/spf13/cobra"

func initEngineFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("engine.endpoint", defaultCfg.Engine.Endpoint, "-> GraphQL engine base URL [HASURA_GRAPHQL_ENDPOINT] (引擎地址)")
	f.String("engine.admin-secret", "", "-> Admin secret, required by metadata/event/cron/scheduled collectors [HASURA_GRAPHQL_ADMIN_SECRET] (管理员密钥)")
	f.Duration("engine.timeout", defaultCfg.Engine.Timeout, "-> Per request timeout, 0 disables (单次请求超时)")
}
